// Package crates implements the registry client for crates.io.
//
// Three operations back the publish pipeline:
//
//   - [Client.LatestVersion] reports the newest published version of a crate
//   - [Client.IsVisible] checks whether an exact version resolves in the
//     registry index (publish acknowledgment can precede index propagation)
//   - [Client.Publish] uploads a new crate version
//
// Visibility checks feed idempotency decisions and are never served
// from cache. [Client.LatestVersion] only annotates plan output and
// caches its responses, with a refresh escape hatch.
//
// crates.io requires a User-Agent header; this client sets one automatically.
package crates
