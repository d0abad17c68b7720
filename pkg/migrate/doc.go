/*
Package migrate converts batches of images to a new format while carrying
their embedded infotext forward.

	+-------------+
	|   Resolve   |
	| (file list) |
	+------+------+
	       |
	+------+------+
	|  RunBatch   |
	| (errgroup)  |
	+------+------+
	       |
	+------+------+
	| ProcessFile |
	| (one image) |
	+-------------+

🎯 Purpose:
- Resolve a file or folder into the images ending in the source extension
- Re-save each image under the target extension with its infotext
- Copy infotext from one image into another (TransferSingle)

🔄 Flow:
1. Resolve the request path; failures are warned and nothing is dispatched
2. Notify the file count
3. Run one task per file on a bounded pool and wait for all of them
4. Notify completion and hand back a status.Report

⚡ Failure isolation:
A file that cannot be decoded, is too large, or has no infotext is skipped
without touching siblings. Batch mode stays quiet about skips; TransferSingle
warns, since it acts on exactly one pair.

🔍 Example:

	m, err := migrate.New(migrate.Options{Notifier: logger})
	report, err := m.RunBatch(ctx, migrate.Request{
		Path:        "outputs",
		From:        "png",
		To:          "jpg",
		Concurrency: 4,
		Recursive:   true,
	})
*/
package migrate
