package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAnswerSplitsInlineBullets(t *testing.T) {
	in := "Check the following: • restart the probe • verify DNS"
	want := "Check the following:\n• restart the probe\n• verify DNS"
	assert.Equal(t, want, NormalizeAnswer(in))
}

func TestNormalizeAnswerSplitsInlineNumberedItems(t *testing.T) {
	in := "Steps to recover: 1. drain the node 2. fail over 3. verify"
	want := "Steps to recover:\n1. drain the node\n2. fail over\n3. verify"
	assert.Equal(t, want, NormalizeAnswer(in))
}

func TestNormalizeAnswerInsertsBlankLineAfterHeader(t *testing.T) {
	in := "**Available Information**:\nThe voucher expires after 30 days."
	want := "**Available Information**:\n\nThe voucher expires after 30 days."
	assert.Equal(t, want, NormalizeAnswer(in))
}

func TestNormalizeAnswerCollapsesBlankRuns(t *testing.T) {
	in := "first paragraph\n\n\n\nsecond paragraph"
	want := "first paragraph\n\nsecond paragraph"
	assert.Equal(t, want, NormalizeAnswer(in))
}

func TestNormalizeAnswerTrimsSurroundingWhitespace(t *testing.T) {
	assert.Equal(t, "plain answer", NormalizeAnswer("  \nplain answer\n\n"))
}

func TestNormalizeAnswerLeavesWellFormedTextAlone(t *testing.T) {
	in := "**Summary**:\n\nAll checks passed.\n• probe healthy\n• DNS resolves"
	assert.Equal(t, in, NormalizeAnswer(in))
}

func TestNormalizeAnswerIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain answer with no markup",
		"Check the following: • restart the probe • verify DNS",
		"Steps: 1. drain 2. fail over",
		"**Available Information**:\nThe voucher expires.",
		"**Header**\n\n\ntext after too many blanks",
		"mixed: • bullet then 1. number\n\n\n\nand a gap",
		"  leading and trailing  \n",
		"decimal like 3.14 stays inline",
	}
	for _, in := range inputs {
		once := NormalizeAnswer(in)
		assert.Equal(t, once, NormalizeAnswer(once), "input %q", in)
	}
}
