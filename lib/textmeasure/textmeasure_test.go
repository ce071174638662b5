package textmeasure_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Josexato/almagag/lib/textmeasure"
)

var txts = []string{
	"ingest gateway fans out to three workers",
	"the cache sits in front of the primary store",
	"every billing request crosses the audit queue",
	"static assets come straight off the edge",
	"a scheduler owns retries so handlers stay dumb",
}

func TestTextMeasure(t *testing.T) {
	ruler, err := textmeasure.NewRuler()
	if err != nil {
		t.Fatal(err)
	}

	font := textmeasure.Font{Style: textmeasure.FONT_STYLE_REGULAR, Size: textmeasure.FONT_SIZE_M}

	// For a set of strings, test each char increases width but not height
	for _, txt := range txts {
		txt = strings.ReplaceAll(txt, " ", "")
		for i := 1; i < len(txt)-1; i++ {
			w1, h1 := ruler.Measure(font, txt[:i])
			w2, h2 := ruler.Measure(font, txt[:i+1])
			assert.Equal(t, h1, h2)
			assert.Less(t, w1, w2, fmt.Sprintf(`"%s" vs "%s"`, txt[:i], txt[:i+1]))
		}
	}

	// For a set of strings, test that adding newlines increases height each time
	for _, txt := range txts {
		whitespaces := strings.Count(txt, " ")
		for i := 1; i < whitespaces-1; i++ {
			txt1 := strings.Replace(txt, " ", "\n", i)
			txt2 := strings.Replace(txt, " ", "\n", i+1)

			w1, h1 := ruler.Measure(font, txt1)
			w2, h2 := ruler.Measure(font, txt2)

			assert.Less(t, h1, h2)
			assert.LessOrEqual(t, w2, w1)
		}
	}
}

func TestFontMeasure(t *testing.T) {
	ruler, err := textmeasure.NewRuler()
	if err != nil {
		t.Fatal(err)
	}

	small := textmeasure.Font{Style: textmeasure.FONT_STYLE_REGULAR, Size: textmeasure.FONT_SIZE_M}
	large := textmeasure.Font{Style: textmeasure.FONT_STYLE_REGULAR, Size: textmeasure.FONT_SIZE_XXL}

	w1, h1 := ruler.Measure(small, "almagag")
	w2, h2 := ruler.Measure(large, "almagag")
	assert.Less(t, w1, w2)
	assert.Less(t, h1, h2)

	for _, style := range textmeasure.FontStyles {
		w, h := ruler.Measure(textmeasure.Font{Style: style, Size: textmeasure.FONT_SIZE_M}, "label")
		assert.Greater(t, w, 0)
		assert.Greater(t, h, 0)
	}
}
