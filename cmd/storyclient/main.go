// Command storyclient sends one story request over the websocket endpoint
// and prints the spoken response. Useful for poking a running server.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/abh2050/alexa-story-teller/domain/entities"
	"github.com/abh2050/alexa-story-teller/internal/auth"
	skillws "github.com/abh2050/alexa-story-teller/internal/websocket"
)

func main() {
	_ = godotenv.Load()

	serverURL := flag.String("url", "ws://localhost:8080/ws", "websocket endpoint")
	token := flag.String("token", "", "invoker token (minted from SKILL_JWT_SECRET when empty)")
	subject := flag.String("subject", "", "story subject")
	theme := flag.String("theme", "", "story theme")
	activity := flag.String("activity", "", "story setting or activity")
	elements := flag.String("elements", "", "additional story elements")
	wait := flag.Duration("wait", 15*time.Second, "how long to wait for the story")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	if *token == "" {
		if secret := os.Getenv("SKILL_JWT_SECRET"); secret != "" {
			minted, err := auth.NewTokens(secret).GenerateInvokerToken("storyclient", time.Hour)
			if err != nil {
				logger.Fatal("Failed to mint token", zap.Error(err))
			}
			*token = minted
		}
	}

	header := http.Header{}
	if *token != "" {
		header.Set("Authorization", "Bearer "+*token)
	}

	conn, resp, err := websocket.DefaultDialer.Dial(*serverURL, header)
	if err != nil {
		if resp != nil {
			logger.Fatal("WebSocket connection failed", zap.Int("status", resp.StatusCode), zap.Error(err))
		}
		logger.Fatal("WebSocket connection failed", zap.Error(err))
	}
	defer conn.Close()

	slots := entities.Slots{}
	for name, value := range map[string]string{
		entities.SlotSubject:            *subject,
		entities.SlotTheme:              *theme,
		entities.SlotActivity:           *activity,
		entities.SlotAdditionalElements: *elements,
	} {
		if value != "" {
			slots[name] = entities.Slot{Name: name, Value: value}
		}
	}

	msg := skillws.SkillRequestMessage{
		BaseMessage: skillws.BaseMessage{
			Type:      skillws.MessageTypeSkillRequest,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			MessageID: uuid.NewString(),
		},
		Envelope: entities.RequestEnvelope{
			Version: "1.0",
			Session: entities.Session{New: true, SessionID: "storyclient." + uuid.NewString()},
			Request: entities.Request{
				Type:      entities.RequestTypeIntent,
				RequestID: "storyclient." + uuid.NewString(),
				Timestamp: time.Now().UTC().Format(time.RFC3339),
				Locale:    "en-US",
				Intent:    &entities.Intent{Name: entities.IntentStory, Slots: slots},
			},
		},
	}
	if err := conn.WriteJSON(msg); err != nil {
		logger.Fatal("Failed to send skill request", zap.Error(err))
	}

	conn.SetReadDeadline(time.Now().Add(*wait))
	var reply skillws.SkillResponseMessage
	if err := conn.ReadJSON(&reply); err != nil {
		logger.Fatal("Failed to read reply", zap.Error(err))
	}

	switch {
	case reply.Type == skillws.MessageTypeError:
		logger.Fatal("Server rejected the request", zap.String("messageID", reply.MessageID))
	case reply.Envelope.Response.OutputSpeech == nil:
		fmt.Println("(no speech)")
	case reply.Envelope.Response.OutputSpeech.SSML != "":
		fmt.Println(reply.Envelope.Response.OutputSpeech.SSML)
	default:
		fmt.Println(reply.Envelope.Response.OutputSpeech.Text)
	}
}
