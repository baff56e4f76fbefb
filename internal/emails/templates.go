package emails

import (
	"bytes"
	"html/template"

	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
)

var abandonedCartTmpl = template.Must(template.New("abandoned-cart").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #333;">
    <h2>You left something behind{{if .FirstName}}, {{.FirstName}}{{end}}!</h2>
    <p>Your little one's favorites are still waiting in your cart:</p>
    <ul>
      {{range .Items}}<li>{{.Name}} &times; {{.Quantity}}</li>{{end}}
    </ul>
    <p><a href="{{.CartURL}}">Finish your order</a> before they sell out.</p>
    <p>With love,<br>the smallwonder team</p>
  </body>
</html>`))

var supportTicketTmpl = template.Must(template.New("support-ticket").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #333;">
    <h2>New support request</h2>
    <p><strong>From:</strong> {{.CustomerName}} ({{.CustomerEmail}})</p>
    {{if .OrderReference}}<p><strong>Order:</strong> {{.OrderReference}}</p>{{end}}
    <p><strong>Subject:</strong> {{.Subject}}</p>
    <p>{{.Message}}</p>
  </body>
</html>`))

var supportAckTmpl = template.Must(template.New("support-ack").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #333;">
    <h2>We got your message{{if .CustomerName}}, {{.CustomerName}}{{end}}</h2>
    <p>Thanks for reaching out about "{{.Subject}}". Our team replies within one business day.</p>
    <p>With love,<br>the smallwonder team</p>
  </body>
</html>`))

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render email template")
	}
	return buf.String(), nil
}
