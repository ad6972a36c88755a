// Package layout places the fields of one case record into a report.
//
// A report starts with a [Frame]: the title heading followed by a four-row
// metadata table. Row 0 holds a nested two-column table whose left cell
// collects the primary metadata fields and whose right cell collects the
// secondary ones. Row 1 is the header image slot. Rows 2 and 3 hold the
// description of risk and the cause of loss.
//
// # Rendering
//
// The [Engine] walks a record's columns in order and hands each field to the
// [Strategy] registered for its [fieldkey.Category]:
//
//	frame := layout.NewFrame(doc, styles, layout.DefaultTitle)
//	engine := layout.NewEngine(styles, log)
//	engine.Render(frame, record)
//
// Strategies receive the [Carry] returned by the previous field and return
// the one passed to the next. The indemnity reserve field stores the text
// after "HST" there and the expense reserve field prints it as its note.
//
// A strategy that fails or panics affects only its own field: the failure is
// logged as a warning and rendering continues with the next column.
//
// # Strategies
//
// [DefaultStrategies] returns the built-in table:
//
//   - MetadataPrimary, MetadataSecondary - bold label and value in the frame
//   - ReserveNoteProducer - bulleted amount up to "HST", note carried forward
//   - ReserveNoteConsumer - bulleted amount followed by the carried note
//   - ManagerSignoff - metadata entry plus a closing salutation
//   - NarrativeSection - heading and value paragraph
//   - NarrativeConclusion - narrative section set apart by a blank line
package layout
