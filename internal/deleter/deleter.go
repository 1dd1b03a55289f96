// Package deleter executes deletions of selected duplicate files.
//
// The deleter receives a flat path list and a dry-run flag and reports
// how many deletions succeeded and failed. Individual failures never
// abort the batch.
package deleter

import "os"

// Result counts the outcome of one deletion batch.
type Result struct {
	Deleted int
	Failed  int
	Errors  []error
}

// Run deletes every path in the list. With dryRun set, files are counted
// but left untouched.
func Run(paths []string, dryRun bool) Result {
	var res Result
	for _, p := range paths {
		if dryRun {
			res.Deleted++
			continue
		}
		if err := os.Remove(p); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, err)
			continue
		}
		res.Deleted++
	}
	return res
}
