package livestatus

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schedulePage = `<html><body>
<div class="schedule">
  <div class="show-entry">
    <span class="show-name">Fountain Spectacular</span>
    <span class="show-time">17:00</span>
    <span class="show-time"> 13:30 </span>
    <span class="show-time">13:30</span>
  </div>
  <div class="show-entry">
    <span class="show-name">Parade of Lights</span>
    <span class="show-time">Starts at 9:30 sharp</span>
  </div>
  <div class="show-entry">
    <span class="show-name">No Times Listed</span>
  </div>
  <div class="show-entry">
    <span class="show-time">11:00</span>
  </div>
</div>
</body></html>`

func TestParseShowtimes(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(schedulePage))
	require.NoError(t, err)

	got := parseShowtimes(doc)
	require.Len(t, got, 2)

	// duplicates dropped, times sorted chronologically
	assert.Equal(t, []string{"13:30", "17:00"}, got["Fountain Spectacular"])

	// times embedded in prose are extracted and zero-padded
	assert.Equal(t, []string{"09:30"}, got["Parade of Lights"])

	_, ok := got["No Times Listed"]
	assert.False(t, ok, "entry without times must be dropped")
}

func TestNormalizeClock(t *testing.T) {
	assert.Equal(t, "09:30", normalizeClock("9:30"))
	assert.Equal(t, "13:30", normalizeClock("13:30"))
}
