package extract

import (
	"regexp"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

var htmlMarkup = regexp.MustCompile(`(?i)<(pre|code|p|div|br|html|body)[\s>/]`)

// ConvertHTML rewrites an HTML response as markdown so that <pre><code>
// blocks become fences the patterns recognize and entities such as &quot;
// are decoded. Text without HTML markup, or that fails to convert, is
// returned unchanged.
func ConvertHTML(text string) string {
	if !htmlMarkup.MatchString(text) {
		return text
	}
	markdown, err := htmltomarkdown.ConvertString(text)
	if err != nil {
		return text
	}
	return markdown
}
