// Package payload converts send requests to the IOVOX XML body and reads its XML replies.
package payload

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/jmehdipour/iovox-sms/internal/model"
)

const rootElement = "request"

var ErrNoRoot = errors.New("xml document has no root element")

// Build renders req as
//
//	<?xml version="1.0" encoding="UTF-8"?>
//	<request><origin/><destination/><message/>[<callback_url/>][<expiry/>]</request>
//
// Optional elements are left out when empty.
func Build(req model.SendRequest) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement(rootElement)
	root.CreateElement("origin").SetText(req.Origin)
	root.CreateElement("destination").SetText(req.Destination)
	root.CreateElement("message").SetText(req.Message)

	if req.CallbackURL != "" {
		root.CreateElement("callback_url").SetText(req.CallbackURL)
	}
	if req.Expiry != "" {
		root.CreateElement("expiry").SetText(req.Expiry)
	}

	b, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("write xml: %w", err)
	}
	return b, nil
}

// Pretty indents an XML document for log output. Anything that does not parse is returned as-is.
func Pretty(b []byte) string {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(b); err != nil || doc.Root() == nil {
		return string(b)
	}
	doc.Indent(2)
	s, err := doc.WriteToString()
	if err != nil {
		return string(b)
	}
	return strings.TrimRight(s, "\n")
}

// Response holds the fields IOVOX puts under the root of a sendSms reply.
type Response struct {
	ActivityID string
	Error      string
}

// ParseResponse reads <sms_activity_id> and <error> from the root element.
// Missing elements leave their field empty.
func ParseResponse(b []byte) (Response, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(b); err != nil {
		return Response{}, fmt.Errorf("parse response xml: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return Response{}, ErrNoRoot
	}

	var resp Response
	if el := root.SelectElement("sms_activity_id"); el != nil {
		resp.ActivityID = strings.TrimSpace(el.Text())
	}
	if el := root.SelectElement("error"); el != nil {
		resp.Error = strings.TrimSpace(el.Text())
	}
	return resp, nil
}
