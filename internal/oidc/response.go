// Copyright 2026 The OpenTrusty Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package oidc

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Response is every HTTP response the engine can produce. Status, Headers,
// and Body are enough for an adapter to render it with any HTTP framework.
// FormPost is set only for a form-POST bounce, exposing the redirect target
// and fields without requiring the caller to scrape the rendered HTML.
type Response struct {
	Status  int
	Headers map[string]string
	Body    []byte

	FormPost *FormPost
}

// FormPost is the structured content of a form-POST bounce response: the
// client's redirect_uri and the fields to be submitted to it.
type FormPost struct {
	URI    string
	Fields map[string]string
}

func baseHeaders(contentType string, status int) map[string]string {
	h := map[string]string{
		"Content-Type":            contentType,
		"Cache-Control":           "no-store",
		"Content-Security-Policy": "frame-ancestors none;",
	}
	if status == 401 {
		h["WWW-Authenticate"] = "Basic"
	}
	return h
}

func authErrorResponse(kind Kind) Response {
	status := kind.Status()
	body := fmt.Sprintf(
		"Oops! something went wrong - sorry about that.\n\n"+
			"We can't tell for sure who sent you here, but it might have been a fool's errand.\n\n"+
			"If you think it isn't, please contact the website that sent you here, and provide them the following information.\n\n"+
			"%s\n\n%s",
		kind.Code(), kind.Description(),
	)
	return Response{
		Status:  status,
		Headers: baseHeaders("plain/text;charset=UTF-8", status),
		Body:    []byte(body),
	}
}

func tokenErrorResponse(kind Kind) Response {
	status := kind.Status()
	body, _ := json.Marshal(struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}{kind.Code(), kind.Description()})
	return Response{
		Status:  status,
		Headers: baseHeaders("application/json;charset=UTF-8", status),
		Body:    body,
	}
}

func tokenSuccessResponse(idToken string) Response {
	body, _ := json.Marshal(struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		IDToken     string `json:"id_token"`
	}{
		AccessToken: "we provide only an id_token, no access token",
		TokenType:   "absent",
		IDToken:     idToken,
	})
	return Response{
		Status:  200,
		Headers: baseHeaders("application/json;charset=UTF-8", 200),
		Body:    body,
	}
}

func formPostCodeResponse(uri, code, state string) Response {
	return renderFormPost(uri, []fieldPair{
		{"code", code},
		{"state", state},
	})
}

func formPostErrorResponse(uri string, re redirectError, state string, hasState bool) Response {
	fields := []fieldPair{{"error", re.Code()}}
	if desc := re.Description(); desc != "" {
		fields = append(fields, fieldPair{"error_description", desc})
	}
	if hasState {
		fields = append(fields, fieldPair{"state", state})
	}
	return renderFormPost(uri, fields)
}

type fieldPair struct {
	Name  string
	Value string
}

func renderFormPost(uri string, fields []fieldPair) Response {
	var inputs strings.Builder
	data := make(map[string]string, len(fields))
	for _, f := range fields {
		fmt.Fprintf(&inputs, "<input type=\"hidden\" name=\"%s\" value=\"%s\">\n",
			escapeHTML(f.Name), escapeHTML(f.Value))
		data[f.Name] = f.Value
	}

	body := fmt.Sprintf(`<html>
<head><title>Form redirection...</title></head>
<body onload="javascript:document.forms[0].submit()">
<form method="post" action="%s">
<input type="hidden">
%s<input type="submit" value="Click here to proceed">
</form>
</body>
</html>`, escapeHTML(uri), inputs.String())

	return Response{
		Status:   200,
		Headers:  baseHeaders("text/html;charset=UTF-8", 200),
		Body:     []byte(body),
		FormPost: &FormPost{URI: uri, Fields: data},
	}
}
