package domain

import "coursemenu/internal/platform/markdown"

// ContentExtractor turns fetched step data into a StepContent. source is nil
// when no step-source was fetched for the step.
type ContentExtractor interface {
	Mode() ContentMode
	Extract(step StepRecord, source *StepSourceRecord) StepContent
}

func ExtractorFor(mode ContentMode) ContentExtractor {
	if mode == ContentFull {
		return fullBlockExtractor{}
	}
	return plainTextExtractor{}
}

type fullBlockExtractor struct{}

func (fullBlockExtractor) Mode() ContentMode { return ContentFull }

func (fullBlockExtractor) Extract(step StepRecord, source *StepSourceRecord) StepContent {
	block := step.Block
	if source != nil {
		block = source.Block
	}
	content := StepContent{Mode: ContentFull, Text: block.Text, Raw: block}
	if block.Video != nil {
		content.Videos = block.Video.URLs
	}
	if StepType(step.Block.Name) == StepChoice {
		content.Options = block.ChoiceOptions()
	}
	return content
}

type plainTextExtractor struct{}

func (plainTextExtractor) Mode() ContentMode { return ContentText }

// Extract keeps the step's own block. Only text and choice steps carry
// prose, which is flattened from HTML.
func (plainTextExtractor) Extract(step StepRecord, _ *StepSourceRecord) StepContent {
	content := StepContent{Mode: ContentText}
	switch StepType(step.Block.Name) {
	case StepText:
		content.Text = markdown.PlainText(step.Block.Text)
	case StepChoice:
		content.Text = markdown.PlainText(step.Block.Text)
		content.Options = step.Block.ChoiceOptions()
	case StepVideo:
		if step.Block.Video != nil {
			content.Videos = step.Block.Video.URLs
		}
	}
	return content
}
