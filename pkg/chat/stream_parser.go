package chat

import "strings"

const (
	metadataStart = "<METADATA_START>"
	metadataEnd   = "<METADATA_END>"

	statusPrefix = "stage"
)

// StreamParser incrementally decodes the agent backend's response stream.
// Everything before the metadata start delimiter is user-facing text and
// is forwarded progressively; the span between the delimiters accumulates
// as the raw metadata buffer; anything after the end delimiter is ignored.
// Both delimiters may arrive split across chunk boundaries.
//
// Status lines (case-insensitive "stage" prefix, not containing
// "complete") are transient progress annotations. They are removed from
// the visible text entirely and surfaced through the status callback
// instead.
type StreamParser struct {
	buffer       string
	pending      string
	passthrough  bool
	inMetadata   bool
	metadataDone bool
	metadata     strings.Builder
}

// Consume processes one chunk of the response stream. onContent receives
// visible text as soon as it is known not to be part of a delimiter or a
// status line; onStatus receives each extracted status line.
func (p *StreamParser) Consume(
	chunk string,
	onContent func(string) error,
	onStatus func(string) error,
) error {
	if p.metadataDone {
		return nil
	}
	p.buffer += chunk

	for {
		if p.inMetadata {
			if idx := strings.Index(p.buffer, metadataEnd); idx != -1 {
				p.metadata.WriteString(p.buffer[:idx])
				p.buffer = ""
				p.metadataDone = true
				return nil
			}
			hold := delimiterOverlap(p.buffer, metadataEnd)
			p.metadata.WriteString(p.buffer[:len(p.buffer)-hold])
			p.buffer = p.buffer[len(p.buffer)-hold:]
			return nil
		}

		idx := strings.Index(p.buffer, metadataStart)
		if idx == -1 {
			hold := delimiterOverlap(p.buffer, metadataStart)
			visible := p.buffer[:len(p.buffer)-hold]
			p.buffer = p.buffer[len(p.buffer)-hold:]
			return p.feedVisible(visible, onContent, onStatus)
		}

		if err := p.feedVisible(p.buffer[:idx], onContent, onStatus); err != nil {
			return err
		}
		if err := p.flushLine(onContent, onStatus); err != nil {
			return err
		}
		p.buffer = p.buffer[idx+len(metadataStart):]
		p.inMetadata = true
	}
}

// Flush drains whatever the parser is still holding at end of stream. A
// held delimiter fragment that never completed is ordinary visible text;
// a metadata buffer cut off before the end delimiter stays available for
// a best-effort parse.
func (p *StreamParser) Flush(
	onContent func(string) error,
	onStatus func(string) error,
) error {
	if p.inMetadata {
		p.metadata.WriteString(p.buffer)
		p.buffer = ""
		return nil
	}
	if p.metadataDone {
		return nil
	}

	if err := p.feedVisible(p.buffer, onContent, onStatus); err != nil {
		return err
	}
	p.buffer = ""
	return p.flushLine(onContent, onStatus)
}

// Metadata returns the accumulated raw metadata buffer and whether the
// end delimiter was actually seen.
func (p *StreamParser) Metadata() (string, bool) {
	return p.metadata.String(), p.metadataDone
}

// feedVisible routes visible text through the status-line filter. Text on
// a line that can still turn out to be a status line is buffered until
// the line completes; everything else is forwarded immediately.
func (p *StreamParser) feedVisible(
	s string,
	onContent func(string) error,
	onStatus func(string) error,
) error {
	emit := func(content string) error {
		if content == "" {
			return nil
		}
		return onContent(content)
	}

	for s != "" {
		if p.passthrough {
			nl := strings.IndexByte(s, '\n')
			if nl == -1 {
				return emit(s)
			}
			if err := emit(s[:nl+1]); err != nil {
				return err
			}
			s = s[nl+1:]
			p.passthrough = false
			continue
		}

		nl := strings.IndexByte(s, '\n')
		if nl == -1 {
			p.pending += s
			if !couldBeStatusLine(p.pending) {
				err := emit(p.pending)
				p.pending = ""
				p.passthrough = true
				if err != nil {
					return err
				}
			}
			return nil
		}

		line := p.pending + s[:nl]
		s = s[nl+1:]
		p.pending = ""
		if isStatusLine(line) {
			if err := onStatus(strings.TrimSpace(line)); err != nil {
				return err
			}
			continue
		}
		if err := emit(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}

func (p *StreamParser) flushLine(
	onContent func(string) error,
	onStatus func(string) error,
) error {
	p.passthrough = false
	if p.pending == "" {
		return nil
	}
	line := p.pending
	p.pending = ""
	if isStatusLine(line) {
		return onStatus(strings.TrimSpace(line))
	}
	return onContent(line)
}

func isStatusLine(line string) bool {
	lower := strings.ToLower(line)
	return strings.HasPrefix(lower, statusPrefix) && !strings.Contains(lower, "complete")
}

// couldBeStatusLine reports whether a partial line might still become a
// status line once more bytes arrive.
func couldBeStatusLine(partial string) bool {
	lower := strings.ToLower(partial)
	if len(lower) < len(statusPrefix) {
		return strings.HasPrefix(statusPrefix, lower)
	}
	return strings.HasPrefix(lower, statusPrefix)
}

// delimiterOverlap returns the length of the longest suffix of s that is
// a proper prefix of delim, i.e. the bytes that must be held back because
// they may be the start of a delimiter split across chunks.
func delimiterOverlap(s, delim string) int {
	max := len(delim) - 1
	if len(s) < max {
		max = len(s)
	}
	for k := max; k > 0; k-- {
		if strings.HasPrefix(delim, s[len(s)-k:]) {
			return k
		}
	}
	return 0
}
