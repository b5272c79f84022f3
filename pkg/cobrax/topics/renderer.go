package topics

// Renderer turns raw topic content into what is printed.
type Renderer interface {
	// Render takes raw content and the topic file extension
	Render(content string, ext string) string
}

// PlainRenderer returns content as is.
type PlainRenderer struct{}

// Render returns the content unchanged
func (r *PlainRenderer) Render(content string, ext string) string {
	return content
}
