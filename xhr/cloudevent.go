package xhr

import (
	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// CloudEventTypePrefix prefixes the CloudEvents type of every exported event.
const CloudEventTypePrefix = "com.kbukum.xhrkit.request."

// eventPayload is the JSON data of an exported event.
type eventPayload struct {
	ReadyState       string `json:"readyState"`
	LengthComputable bool   `json:"lengthComputable,omitempty"`
	Loaded           int64  `json:"loaded"`
	Total            int64  `json:"total"`
	Error            string `json:"error,omitempty"`
}

// CloudEvent converts e to a CloudEvents 1.0 event. The request ID becomes
// the subject so events of one request can be correlated.
func (e Event) CloudEvent(source string) (cloudevents.Event, error) {
	ce := cloudevents.NewEvent()
	ce.SetID(uuid.NewString())
	ce.SetSource(source)
	ce.SetType(CloudEventTypePrefix + string(e.Type))
	ce.SetSubject(e.RequestID)
	ce.SetTime(e.Time)
	ce.SetSpecVersion(cloudevents.VersionV1)

	payload := eventPayload{
		ReadyState:       e.ReadyState.String(),
		LengthComputable: e.LengthComputable,
		Loaded:           e.Loaded,
		Total:            e.Total,
	}
	if e.Err != nil {
		payload.Error = e.Err.Error()
	}
	if err := ce.SetData(cloudevents.ApplicationJSON, payload); err != nil {
		return ce, err
	}
	return ce, ce.Validate()
}
