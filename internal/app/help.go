package app

const helpMarkdown = `# Keys

| key | action |
|---|---|
| tab / l / right | next view |
| shift+tab / h / left | previous view |
| 1 - 9, 0 | jump to view |
| g | collapse or expand the current nav group |
| b | collapse or expand the nav bar |
| t | cycle theme (light, dark, system) |
| f | toggle chat focus mode |
| y | copy share link without token |
| Y | copy share link with token |
| G | follow the log tail |
| ? | toggle this help |
| q | quit |

Logs poll only while **Logs** is open; the debug snapshot refreshes only
while **Debug** is open.
`

func (m *Model) renderHelp(width int) string {
	return renderMarkdown(helpMarkdown, width, m.dark())
}
