// Package github provides an HTTP client for the GitHub API.
//
// The release gate needs one question answered: which pull request, if
// any, produced a given commit, and what labels does it carry. The
// client exposes that as [Client.PullsForCommit], built on the commit
// pulls endpoint (https://api.github.com/repos/{owner}/{repo}/commits/{sha}/pulls).
//
// # Authentication
//
// A GitHub access token is optional but recommended. Without one the
// client is limited to 60 requests/hour; with one, 5000.
//
// # Caching
//
// Pull-request lookups are never cached. Label state is mutable right
// up to merge time, and a stale answer here either skips a real
// release or triggers a phantom one.
package github
