// Package xhr implements the browser request object lifecycle on top of an
// asynchronous HTTP transport.
//
// A Request is configured with Open and SetRequestHeader, then started with
// Send. Send validates synchronously and returns; one goroutine performs a
// single transport call and drives the ready states
//
//	Unsent -> Opened -> HeadersReceived -> Loading -> Done
//
// firing readystatechange on every transition, loadstart before the call,
// and either progress, load and loadend or a single error afterwards. The
// request always reaches Done. Transport failures never surface as Send
// errors; they arrive as the error event's Err.
//
//	req := xhr.New()
//	req.OnLoad(func(ev xhr.Event) { fmt.Println(req.Status()) })
//	_ = req.Open("GET", "https://example.com/")
//	_ = req.Send(nil)
//	_ = req.Wait(ctx)
//
// Abort, OverrideMimeType, Upload and ResponseXML exist only to fail with a
// NOT_IMPLEMENTED error. Request timeouts are not enforced here; configure
// the transport's own timeout instead.
package xhr
