/*
Package status tracks what happened to each file of a batch and owns the
file system writes that produce outputs.

	            +-------------+
	            |   Status    |
	            |  (Report)   |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+------+
	|   Files   |           | Formatter |
	| (Storage) |           |  (UI/UX)  |
	+-----------+           +-----------+

🎯 Purpose:
- Records one Outcome per file task
- Folds outcomes into a Report once the batch has joined
- Writes outputs atomically (temp file + rename)
- Formats outcomes and summaries for the console

📝 Design Philosophy:
Tasks never share a Report while running. Each task returns its Outcome,
the caller stores it in the task's own slot, and NewReport counts them after
every task has finished.

🔍 Example:

	outcomes := make([]status.Outcome, len(files))
	// ... each task fills outcomes[i]
	report := status.NewReport(outcomes)
	fmt.Println(status.NewDefaultFileFormatter().FormatSummary(report))
*/
package status
