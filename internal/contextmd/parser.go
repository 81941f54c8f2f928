package contextmd

import (
	"strings"
)

// ParsedContent represents the sections of an existing context file.
type ParsedContent struct {
	PreContent       string // Content before the generated section
	GeneratedContent string
	CustomContent    string // Content after the generated section
	HasMarkers       bool
}

// Parser splits context files into generated and hand-written sections.
type Parser struct{}

// Parse splits the content into generated and custom sections. Content
// without a well-formed marker pair is treated as entirely custom.
func (p *Parser) Parse(content string) (*ParsedContent, error) {
	result := &ParsedContent{}

	startIdx := strings.Index(content, GeneratedStartMarker)
	endIdx := -1
	if startIdx != -1 {
		if rel := strings.Index(content[startIdx:], GeneratedEndMarker); rel != -1 {
			endIdx = startIdx + rel
		}
	}

	if startIdx == -1 || endIdx == -1 {
		result.CustomContent = content
		return result, nil
	}

	result.HasMarkers = true
	result.PreContent = content[:startIdx]
	result.GeneratedContent = content[startIdx : endIdx+len(GeneratedEndMarker)]

	afterMarker := endIdx + len(GeneratedEndMarker)
	if afterMarker < len(content) {
		result.CustomContent = content[afterMarker:]
	}

	return result, nil
}

// HasCustomContent returns true if the parsed content has custom sections.
func (p *ParsedContent) HasCustomContent() bool {
	return strings.TrimSpace(p.CustomContent) != ""
}
