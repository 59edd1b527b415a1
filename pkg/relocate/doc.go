/*
Package relocate moves triaged items into their destination folders.

	+-------------+      +-------------+      +-------------+
	|  Snapshot   | ---> |  Pipeline   | ---> |   Report    |
	| (decisions) |      | (workers)   |      | (outcomes)  |
	+-------------+      +------+------+      +-------------+
	                            |
	                     +------+------+
	                     |   Storage   |
	                     | (read/write)|
	                     +-------------+

🎯 Purpose:
- Copies every decided item to <base>/<category> or <base>/Trash
- Deletes the source only after the copy fully succeeded
- Records tag and trash locations with an optional recorder

⚡ Failure model:
Each item is isolated. An unreadable source or a failed write marks that item
and leaves its source untouched; the batch keeps going. A source that cannot be
deleted after a good copy is a warning, the item still counts as relocated.
Only an unavailable storage root fails the whole call.

🔍 Example:

	p, err := relocate.New(relocate.Options{Storage: st, Base: "/photos"})
	report, err := p.Relocate(ctx, decisions)
*/
package relocate
