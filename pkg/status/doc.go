/*
Package status tracks relocation progress and formats outcomes for pictriage.

	            +-------------+
	            |   Status    |
	            |  (Tracker)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+------+
	| Progress  |           | Formatter |
	| (counts)  |           |  (UI/UX)  |
	+-----------+           +-----------+

🎯 Purpose:
- Receives progress from the relocation pipeline while a batch runs
- Remembers the outcome of every item
- Turns outcomes, progress and whole batches into readable messages

🔄 Flow:
1. Pipeline calls StartOperation with the batch size
2. Each finished item bumps UpdateProgress (workers report out of order)
3. FinishOperation closes the batch
4. The caller hands the report to TrackReport and prints FormatSummary,
   or passes a batch-level error to TrackFailure

🤝 Interfaces:
- StatusReporter: outcome tracking plus relocate.Progress
- OutcomeFormatter: message formatting, swappable per output

🔍 Example:

	tracker := status.New(&logger)
	pipeline, _ := relocate.New(relocate.Options{Storage: st, Base: lib, Progress: tracker})

	report, err := pipeline.Relocate(ctx, batch)
	tracker.TrackReport(ctx, report)
	fmt.Println(status.FormatSummary(report)) // 48 of 50 saved, 2 failed
*/
package status
