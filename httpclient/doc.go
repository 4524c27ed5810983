// Package httpclient is the HTTP transport behind xhr.Request.
//
// An Adapter issues one request and returns one fully-read response. Unlike a
// REST client it does not turn 4xx/5xx statuses into errors: every answer
// from the server is a Response, and only failures to obtain or decode an
// answer are reported as *Error.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.example.com",
//	    Timeout: 30 * time.Second,
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method:       http.MethodGet,
//	    URL:          "/users/123",
//	    ResponseType: httpclient.ResponseTypeText,
//	})
package httpclient
