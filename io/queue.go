package io

// Queue is an in-memory console. Keys pushed with Push are returned by
// Poll in order; everything printed is collected in Output.
type Queue struct {
	Input  []uint16
	Output []uint16
}

var _ Console = (*Queue)(nil)

// Reset drops all pending input and captured output.
func (qc *Queue) Reset() {
	qc.Input = nil
	qc.Output = nil
}

// Push appends keys to the pending input.
func (qc *Queue) Push(keys ...uint16) {
	qc.Input = append(qc.Input, keys...)
}

// PushString appends each byte of text to the pending input.
func (qc *Queue) PushString(text string) {
	for n := range len(text) {
		qc.Input = append(qc.Input, uint16(text[n]))
	}
}

func (qc *Queue) Poll() (value uint16, ok bool) {
	if len(qc.Input) > 0 {
		ok = true
		value = qc.Input[0]
		qc.Input = qc.Input[1:]
	}
	return
}

func (qc *Queue) Print(value uint16) {
	qc.Output = append(qc.Output, value)
}

// String returns the captured output, one byte per character.
func (qc *Queue) String() string {
	out := make([]byte, len(qc.Output))
	for n, value := range qc.Output {
		out[n] = byte(value)
	}
	return string(out)
}
