package wire

// Message is the fully decoded form of a DNS packet: a header plus its
// four record sections. A Message owns its slices exclusively; the
// Cursor used to produce or consume one is scoped to that single decode
// or encode call and is never retained afterward.
type Message struct {
	Header      Header
	Questions   []Question
	Answers     []Record
	Authorities []Record
	Additionals []Record
}

// Decode parses a Message out of a raw UDP datagram. Decoding is
// straight-line: header, then exactly Header.QDCount questions,
// Header.ANCount answers, Header.NSCount authorities, and
// Header.ARCount additionals, in that order. Any field failure aborts
// the whole decode, and so does a datagram shorter than the header and
// sections it declares (ErrEndOfBuffer).
func Decode(data []byte) (Message, error) {
	c, err := NewCursorFrom(data)
	if err != nil {
		return Message{}, err
	}

	h, err := decodeHeader(c)
	if err != nil {
		return Message{}, err
	}

	questions := make([]Question, 0, h.QDCount)
	for i := uint16(0); i < h.QDCount; i++ {
		q, err := decodeQuestion(c)
		if err != nil {
			return Message{}, err
		}
		questions = append(questions, q)
	}

	answers, err := decodeRecords(c, h.ANCount)
	if err != nil {
		return Message{}, err
	}
	authorities, err := decodeRecords(c, h.NSCount)
	if err != nil {
		return Message{}, err
	}
	additionals, err := decodeRecords(c, h.ARCount)
	if err != nil {
		return Message{}, err
	}
	// The cursor zero-pads data to 512 bytes; anything read past
	// len(data) came from that padding, not from the datagram.
	if c.Position() > len(data) {
		return Message{}, ErrEndOfBuffer
	}

	return Message{
		Header:      h,
		Questions:   questions,
		Answers:     answers,
		Authorities: authorities,
		Additionals: additionals,
	}, nil
}

func decodeRecords(c *Cursor, count uint16) ([]Record, error) {
	records := make([]Record, 0, count)
	for i := uint16(0); i < count; i++ {
		rr, err := decodeRecord(c)
		if err != nil {
			return nil, err
		}
		records = append(records, rr)
	}
	return records, nil
}

// Encode serializes m back to wire format. The header's four section
// counts are recomputed from len(m.Questions)/Answers/Authorities/
// Additionals before the header is written, so they reconcile with the
// slices rather than with whatever the caller last set. KindUnknown
// records are silently dropped (see encodeRecord) but are still counted,
// so a message carrying them encodes with counts larger than the number
// of records actually written.
func Encode(m Message) ([]byte, error) {
	h := m.Header
	h.QDCount = uint16(len(m.Questions))
	h.ANCount = uint16(len(m.Answers))
	h.NSCount = uint16(len(m.Authorities))
	h.ARCount = uint16(len(m.Additionals))

	c := NewCursor()
	if err := encodeHeader(c, h); err != nil {
		return nil, err
	}
	for _, q := range m.Questions {
		if err := encodeQuestion(c, q); err != nil {
			return nil, err
		}
	}
	for _, sections := range [][]Record{m.Answers, m.Authorities, m.Additionals} {
		for _, rr := range sections {
			if err := encodeRecord(c, rr); err != nil {
				return nil, err
			}
		}
	}
	return c.Written(), nil
}
