package corpus

import "iter"

// LineTable maps line ids to lines.
type LineTable map[string]Line

// CharacterTable maps character ids to characters.
type CharacterTable map[string]Character

// LoadLines reads movie_lines.txt into a LineTable.
func LoadLines(path string, f Format) (LineTable, error) {
	f = f.withDefaults()

	r, err := Open(path, f.Encoding)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }() // Read-only; close error carries nothing

	lines := make(LineTable)
	for r.Next() {
		line, err := ParseLine(r.Text(), f.Separator)
		if err != nil {
			return nil, r.recordError("", err)
		}
		if _, dup := lines[line.ID]; dup {
			return nil, r.recordError(line.ID, ErrDuplicateID)
		}
		lines[line.ID] = line
	}
	if err := r.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// LoadCharacters reads movie_characters_metadata.txt into a CharacterTable.
func LoadCharacters(path string, f Format) (CharacterTable, error) {
	f = f.withDefaults()

	r, err := Open(path, f.Encoding)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	characters := make(CharacterTable)
	for r.Next() {
		c, err := ParseCharacter(r.Text(), f.Separator)
		if err != nil {
			return nil, r.recordError("", err)
		}
		if _, dup := characters[c.ID]; dup {
			return nil, r.recordError(c.ID, ErrDuplicateID)
		}
		characters[c.ID] = c
	}
	if err := r.Err(); err != nil {
		return nil, err
	}

	return characters, nil
}

// ScanConversations streams movie_conversations.txt in file order.
//
// Each range over the returned sequence opens the file afresh. The first
// error is yielded once and ends the sequence.
func ScanConversations(path string, f Format) iter.Seq2[Conversation, error] {
	f = f.withDefaults()

	return func(yield func(Conversation, error) bool) {
		r, err := Open(path, f.Encoding)
		if err != nil {
			yield(Conversation{}, err)
			return
		}
		defer func() { _ = r.Close() }()

		for r.Next() {
			conv, err := ParseConversation(r.Text(), f.Separator)
			if err != nil {
				yield(Conversation{}, r.recordError("", err))
				return
			}
			conv.Path = r.Path()
			conv.Row = r.Row()
			conv.Record = r.Text()
			if !yield(conv, nil) {
				return
			}
		}
		if err := r.Err(); err != nil {
			yield(Conversation{}, err)
		}
	}
}
