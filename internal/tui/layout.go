package tui

// Fixed heights of the panel sections, borders included.
const (
	headerHeight    = 4
	barsHeight      = 2
	composerLines   = 3
	composerHeight  = composerLines + 3
	noticeHeight    = 1
	statusBarHeight = 1

	minViewportHeight = 3
	minContentWidth   = 30
	maxBubbleWidth    = 120
)

// layout is the computed geometry of the chat panel for one terminal size.
// It is a plain value rebuilt on every resize.
type layout struct {
	width  int
	height int

	// contentWidth is the inner width of the bordered panels
	contentWidth int

	viewportWidth  int
	viewportHeight int

	composerWidth int

	// bubbleWidth is the width of a message bubble inside the viewport
	bubbleWidth int
	// markdownWidth is the wrap width for rendered assistant replies
	markdownWidth int

	barWidth int
}

// newLayout computes the panel geometry for a terminal of width x height.
func newLayout(width, height int) layout {
	l := layout{width: width, height: height}

	l.contentWidth = width - 4
	if l.contentWidth < minContentWidth {
		l.contentWidth = minContentWidth
	}

	l.viewportWidth = l.contentWidth - 2
	l.viewportHeight = height - headerHeight - barsHeight - composerHeight - noticeHeight - statusBarHeight - 2
	if l.viewportHeight < minViewportHeight {
		l.viewportHeight = minViewportHeight
	}

	l.composerWidth = l.contentWidth - 4

	l.bubbleWidth = l.viewportWidth - 6
	if l.bubbleWidth > maxBubbleWidth {
		l.bubbleWidth = maxBubbleWidth
	}
	l.markdownWidth = l.bubbleWidth - 4

	l.barWidth = l.contentWidth / 4
	if l.barWidth < 10 {
		l.barWidth = 10
	}

	return l
}
