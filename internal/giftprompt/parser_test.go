package giftprompt

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gifty/internal/models/response_models"
)

const fourGifts = "Gift 1:\nName: Wallet\nDescription: nice leather wallet\n\nGift 2:\nName: Mug\nDescription: warms your coffee\n\nGift 3:\nName: Pen\nDescription: writes smoothly always\n\nGift 4:\nName: Book\nDescription: gripping mystery novel"

func TestPrimaryParserScenario(t *testing.T) {
	got, err := NewPrimaryParser().Parse(fourGifts)
	require.NoError(t, err)
	require.Len(t, got, 4)

	names := make([]string, 0, len(got))
	for _, s := range got {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Wallet", "Mug", "Pen", "Book"}, names)
	assert.Equal(t, "nice leather wallet", got[0].Description)
}

func TestPrimaryParserIsIdempotent(t *testing.T) {
	p := NewPrimaryParser()
	first, err := p.Parse(fourGifts)
	require.NoError(t, err)
	second, err := p.Parse(fourGifts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPrimaryParserRejectsWrongCount(t *testing.T) {
	for _, n := range []int{0, 1, 3, 5} {
		t.Run(fmt.Sprintf("%d blocks", n), func(t *testing.T) {
			got, err := NewPrimaryParser().Parse(gifts(n))
			assert.Nil(t, got)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, WrongCount, perr.Kind)
			assert.Equal(t, 4, perr.Want)
			assert.Equal(t, n, perr.Got)
		})
	}
}

func TestPrimaryParserFailsWholeParseOnMissingDescription(t *testing.T) {
	text := strings.Replace(fourGifts, "Description: warms your coffee", "Tagline: warms your coffee", 1)

	got, err := NewPrimaryParser().Parse(text)
	assert.Nil(t, got)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, MissingField, perr.Kind)
	assert.Equal(t, 2, perr.Block)
	assert.Equal(t, "Description", perr.Field)
}

func TestPrimaryParserLineRules(t *testing.T) {
	text := "Gift 1:\nGIFT NAME: Chess Set: Travel Edition\nPrice: 20\nnot a field line\nDescription:\nDescription: compact magnetic board\n" +
		"Gift 2:\n: orphan value\nName: Mug\nShort description: warms coffee\n" +
		"Gift 3:\nName: Pen\nDescription: writes well\n" +
		"Gift 4:\nName: Book\nDescription: mystery"

	got, err := NewPrimaryParser().Parse(text)
	require.NoError(t, err)
	assert.Equal(t, response_models.GiftSuggestion{Name: "Chess Set: Travel Edition", Description: "compact magnetic board"}, got[0])
	assert.Equal(t, "warms coffee", got[1].Description)
}

func TestPrimaryParserCountsPreambleAsBlock(t *testing.T) {
	_, err := NewPrimaryParser().Parse("Here are my ideas:\n\n" + fourGifts)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, WrongCount, perr.Kind)
	assert.Equal(t, 5, perr.Got)
}

func TestQuickParserDropsMalformedBlocks(t *testing.T) {
	text := "Here are some ideas!\n\n" +
		"Gift 1:\nGift name: Scented Candle\nEstimated price: $25\nWhy it's perfect: calming evenings\nWhere to buy: Target\nDescription: lavender soy candle\n\n" +
		"Gift 2:\nGift name: Chocolate Box\nEstimated price: $15\n\n" +
		"Gift 3:\nEstimated price: $30\nDescription: no name here\n\n" +
		"Gift 4:\nName: Succulent\nWhy: low maintenance\nDescription: tiny potted plant"

	got, err := NewQuickParser(1).Parse(text)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, response_models.GiftSuggestion{
		Name:        "Scented Candle",
		Description: "lavender soy candle",
		Price:       "$25",
		Reason:      "calming evenings",
		WhereToBuy:  "Target",
	}, got[0])
	assert.Equal(t, "Succulent", got[1].Name)
	assert.Equal(t, "low maintenance", got[1].Reason)
}

func TestQuickParserMinimumAndMaximum(t *testing.T) {
	_, err := NewQuickParser(3).Parse(gifts(2))
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, TooFew, perr.Kind)
	assert.Equal(t, 3, perr.Want)
	assert.Equal(t, 2, perr.Got)

	got, err := NewQuickParser(0).Parse(gifts(8))
	require.NoError(t, err)
	assert.Len(t, got, Quick.Max)

	_, err = NewQuickParser(0).Parse("no structure at all")
	require.Error(t, err)
}

func TestFallbackRepliesParse(t *testing.T) {
	primary, err := NewPrimaryParser().Parse(FallbackReply(Primary))
	require.NoError(t, err)
	assert.Equal(t, "Fallback Gift", primary[0].Name)
	assert.Equal(t, "Fallback Gift 4", primary[3].Name)

	sample, err := NewPrimaryParser().Parse(SampleReply(Primary))
	require.NoError(t, err)
	assert.Equal(t, "Sample Gift 2", sample[1].Name)

	quick, err := NewQuickParser(Quick.Min).Parse(FallbackReply(Quick))
	require.NoError(t, err)
	assert.Len(t, quick, 5)
}

func TestSampleForFollowsSystemInstruction(t *testing.T) {
	quick, err := NewQuickParser(Quick.Min).Parse(SampleFor(SystemInstruction(Quick)))
	require.NoError(t, err)
	assert.Len(t, quick, 5)

	_, err = NewPrimaryParser().Parse(SampleFor(SystemInstruction(Primary)))
	assert.NoError(t, err)
	_, err = NewPrimaryParser().Parse(SampleFor("anything else"))
	assert.NoError(t, err)
}

func gifts(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "Gift %d:\nName: Item %d\nDescription: description %d\n\n", i, i, i)
	}
	return b.String()
}

func TestHeaderPatternIsCompiledOnce(t *testing.T) {
	first := headerPattern(Primary.BlockLabel)
	assert.Same(t, first, headerPattern(Primary.BlockLabel))
	assert.NotSame(t, first, headerPattern("Idea"))
	assert.True(t, headerPattern("Idea").MatchString("Idea 3:"))
}
