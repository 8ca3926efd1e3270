// Package script runs Lua scripts against an editing engine.
//
// Scripts run in a sandboxed gopher-lua state: only the base, table,
// string and math libraries are opened, and dofile, loadfile, load and
// require are removed. A script drives a document through the buf module:
//
//	state := script.NewState(script.WithTimeout(time.Second))
//	defer state.Close()
//
//	state.Bind(e)
//	err := state.DoString(ctx, "edit", `
//	    buf.move("end")
//	    buf.insert("\n-- done")
//	`)
//
// # The buf module
//
// Offsets, lines and columns are zero-based chars, matching the engine.
// Arguments are clamped the same way engine operations clamp them.
//
//	text()                       full document text
//	len(), line_count()          sizes in chars and lines
//	line(n)                      text of line n without its newline
//	char_at(offset)              one-char string, or nil past the end
//	cursor(), line_col()         cursor as an offset or as line, col
//	set_cursor(offset)           move the cursor, dropping the selection
//	set_line_col(l, c, extend)   move to a line/col
//	move(dir, extend)            dir is left, right, up, down, word_left,
//	                             word_right, line_start, line_end, start, end
//	selection()                  start, end or nil
//	select(anchor, head), select_all(), select_word(), select_line()
//	clear_selection(), selected_text()
//	insert(s), insert_char(c), paste(s)
//	backspace(), delete(), delete_word_left(), delete_selection(), cut()
//	undo(), redo(), can_undo(), can_redo()
//	move_lines_up(), move_lines_down()
//	set_content(s), visual_column(), revision()
//
// # The input module
//
// input.new(text) returns a single-line field for building prompt answers
// and search strings. Line breaks never enter it. Methods use colon calls:
//
//	local f = input.new("hello world")
//	f:move("word_left")          -- left, right, word_left, word_right, home, end
//	f:delete_word_left()
//	buf.insert(f:text())
//
// Fields also have len, cursor, set_text, clear, set_cursor, selection,
// selected_text, select_all, insert, insert_char, paste, backspace, delete,
// delete_word_right, delete_selection and cut.
//
// print writes to the state's output, which defaults to io.Discard.
//
// A State is not safe for concurrent use.
package script
