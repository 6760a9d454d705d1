package entities

// SpeechFormat selects how the platform should read the output text
type SpeechFormat string

const (
	SpeechPlainText SpeechFormat = "PlainText"
	SpeechSSML      SpeechFormat = "SSML"
)

// ResponseVersion is the envelope version the skill answers with
const ResponseVersion = "1.0"

// SpokenResponse is what a handler produces for one request.
// ExpectsReply and ShouldEndSession are never both true.
type SpokenResponse struct {
	Text             string
	Format           SpeechFormat
	ShouldEndSession bool
	ExpectsReply     bool
	Reprompt         string
}

// Ask builds a response that keeps the session open and reprompts with the same text.
func Ask(text string) SpokenResponse {
	return SpokenResponse{
		Text:         text,
		Format:       SpeechPlainText,
		ExpectsReply: true,
		Reprompt:     text,
	}
}

// Tell builds a plain response that neither ends the session explicitly nor reprompts.
func Tell(text string) SpokenResponse {
	return SpokenResponse{Text: text, Format: SpeechPlainText}
}

// Empty is the response for requests that expect no speech.
func Empty() SpokenResponse {
	return SpokenResponse{}
}

// ResponseEnvelope is the JSON body returned to the voice platform
type ResponseEnvelope struct {
	Version  string       `json:"version"`
	Response ResponseBody `json:"response"`
}

// ResponseBody holds speech, reprompt and session flag
type ResponseBody struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Reprompt         *Reprompt     `json:"reprompt,omitempty"`
	ShouldEndSession *bool         `json:"shouldEndSession,omitempty"`
}

// OutputSpeech carries either Text or SSML depending on Type
type OutputSpeech struct {
	Type SpeechFormat `json:"type"`
	Text string       `json:"text,omitempty"`
	SSML string       `json:"ssml,omitempty"`
}

// Reprompt is spoken when the user does not answer
type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}

// Envelope renders the response in the platform schema.
// shouldEndSession is true when ending, false when a reply is expected and omitted otherwise.
func (r SpokenResponse) Envelope() ResponseEnvelope {
	body := ResponseBody{}
	if r.Text != "" {
		speech := newOutputSpeech(r.Format, r.Text)
		body.OutputSpeech = &speech
	}
	if r.ExpectsReply && r.Reprompt != "" {
		body.Reprompt = &Reprompt{OutputSpeech: newOutputSpeech(r.Format, r.Reprompt)}
	}
	switch {
	case r.ShouldEndSession:
		end := true
		body.ShouldEndSession = &end
	case r.ExpectsReply:
		end := false
		body.ShouldEndSession = &end
	}
	return ResponseEnvelope{Version: ResponseVersion, Response: body}
}

func newOutputSpeech(format SpeechFormat, text string) OutputSpeech {
	if format == SpeechSSML {
		return OutputSpeech{Type: SpeechSSML, SSML: text}
	}
	return OutputSpeech{Type: SpeechPlainText, Text: text}
}
