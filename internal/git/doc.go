// Package git provides read-only Git operations via exec for git-vines.
//
// Every invocation goes through a Runner, which caps how many git processes
// run at once (DefaultLimit) and reports failures as *ExecError carrying the
// arguments, exit status and stderr:
//
//	runner := git.NewRunner(git.WithDir(repoPath), git.WithLimit(7))
//	out, err := runner.Run(ctx, "rev-parse", "HEAD")
//
// # Repository State
//
// A Session owns the shared state of one run (the stat cache) and collects
// what is needed to decorate commits, concurrently:
//
//	session := git.NewSession(runner, logger)
//	state, err := session.Collect(ctx, true)
//	state.Refs.Names(hash) // ["HEAD", "refs/heads/main", "refs/tags/v1"]
//	state.HeadSuffix()     // "*%|MERGING"
//
// # Commit Log
//
// OpenLog streams the commit log one line per commit. Each Commit carries the
// hashes of the next depth-1 commits so the renderer can look ahead:
//
//	stream, err := git.OpenLog(ctx, runner, git.LogOptions{Depth: 2})
//	defer stream.Close()
//	for {
//	    commit, err := stream.Next()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    ...
//	}
//
// # Error Handling
//
// Failures the run cannot continue without (no repository, unresolvable HEAD,
// unsupported .git file) are returned as *output.ExitError with
// output.ExitSystemError. Optional signals (dirty checks, tag lookups, stat
// calls) degrade to "clean" or "absent" and are only logged.
package git
