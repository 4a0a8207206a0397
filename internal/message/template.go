package message

import (
	"bytes"
	"html/template"
)

// htmlTmpl is the fixed document wrapper applied to every rendered body.
// The inline styles keep rendering consistent across email clients; the
// viewport meta keeps the message readable on mobile. {{.Body}} is already
// rendered HTML, hence template.HTML.
var htmlTmpl = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
        }
        code {
            background-color: #f4f4f4;
            padding: 2px 6px;
            border-radius: 3px;
            font-family: 'Courier New', monospace;
        }
        pre {
            background-color: #f4f4f4;
            padding: 10px;
            border-radius: 5px;
            overflow-x: auto;
        }
        blockquote {
            border-left: 4px solid #ddd;
            margin: 0;
            padding-left: 15px;
            color: #666;
        }
        table {
            border-collapse: collapse;
            width: 100%;
        }
        table th, table td {
            border: 1px solid #ddd;
            padding: 8px;
            text-align: left;
        }
        table th {
            background-color: #f4f4f4;
        }
    </style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// wrapHTML embeds a rendered HTML fragment into the document template.
func wrapHTML(fragment string) (string, error) {
	var buf bytes.Buffer
	err := htmlTmpl.Execute(&buf, struct{ Body template.HTML }{template.HTML(fragment)}) //nolint:gosec // fragment is our own goldmark output
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
