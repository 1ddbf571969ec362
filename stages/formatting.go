package stages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/storypipe/storypipe/message"
)

const titleMaxInputLen = 50

// formatter is stage C4: renders the story as Markdown and as a
// standalone HTML document.
type formatter struct {
	delay time.Duration
}

func (c *formatter) run(_ context.Context, msg *message.Message) (*message.Message, error) {
	pause(c.delay)

	title := storyTitle(msg.UserInput)
	msg.FormattedOutput = &message.FormattedOutput{
		Markdown: formatMarkdown(msg.StoryText, title),
		HTML:     formatHTML(msg.StoryText, title),
		Title:    title,
	}
	return msg, nil
}

func storyTitle(input string) string {
	if len(input) > titleMaxInputLen {
		return "Story: " + input[:titleMaxInputLen] + "..."
	}
	return "Story: " + input
}

func formatMarkdown(story, title string) string {
	lines := []string{"# " + title + "\n"}
	for _, para := range strings.Split(story, "\n\n") {
		lines = append(lines, strings.TrimSpace(para), "")
	}
	return strings.Join(lines, "\n")
}

func formatHTML(story, title string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<!DOCTYPE html>
<html>
<head>
    <title>%s</title>
    <style>
        body {
            font-family: Georgia, serif;
            max-width: 800px;
            margin: 0 auto;
            padding: 20px;
            line-height: 1.6;
        }
        h1 {
            color: #333;
            border-bottom: 2px solid #333;
            padding-bottom: 10px;
        }
        p {
            margin-bottom: 15px;
        }
    </style>
</head>
<body>
    <h1>%s</h1>
`, title, title)
	for _, para := range strings.Split(story, "\n\n") {
		fmt.Fprintf(&b, "    <p>%s</p>\n", strings.TrimSpace(para))
	}
	b.WriteString("</body>\n</html>")
	return b.String()
}
