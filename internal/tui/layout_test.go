package tui

import "testing"

func TestNewLayout(t *testing.T) {
	l := newLayout(100, 40)

	if l.contentWidth != 96 {
		t.Errorf("contentWidth = %d, want 96", l.contentWidth)
	}
	if l.viewportWidth != 94 {
		t.Errorf("viewportWidth = %d, want 94", l.viewportWidth)
	}
	wantVP := 40 - headerHeight - barsHeight - composerHeight - noticeHeight - statusBarHeight - 2
	if l.viewportHeight != wantVP {
		t.Errorf("viewportHeight = %d, want %d", l.viewportHeight, wantVP)
	}
	if l.markdownWidth != l.bubbleWidth-4 {
		t.Errorf("markdownWidth = %d, want bubbleWidth-4 (%d)", l.markdownWidth, l.bubbleWidth-4)
	}
}

func TestNewLayoutClamps(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero", 0, 0},
		{"tiny", 10, 5},
		{"negative", -5, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLayout(tt.width, tt.height)
			if l.contentWidth < minContentWidth {
				t.Errorf("contentWidth = %d, below minimum %d", l.contentWidth, minContentWidth)
			}
			if l.viewportHeight < minViewportHeight {
				t.Errorf("viewportHeight = %d, below minimum %d", l.viewportHeight, minViewportHeight)
			}
			if l.barWidth < 10 {
				t.Errorf("barWidth = %d, below 10", l.barWidth)
			}
			if l.markdownWidth <= 0 {
				t.Errorf("markdownWidth = %d, want positive", l.markdownWidth)
			}
		})
	}
}

func TestNewLayoutCapsBubbleWidth(t *testing.T) {
	l := newLayout(400, 60)
	if l.bubbleWidth != maxBubbleWidth {
		t.Errorf("bubbleWidth = %d, want %d", l.bubbleWidth, maxBubbleWidth)
	}
}

func TestNewLayoutIsPure(t *testing.T) {
	a := newLayout(120, 50)
	_ = newLayout(80, 24)
	b := newLayout(120, 50)
	if a != b {
		t.Errorf("newLayout(120, 50) differs between calls: %+v vs %+v", a, b)
	}
}
