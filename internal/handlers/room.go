package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"coderoom/internal/ai"
	"coderoom/internal/game"
	"coderoom/internal/models"
	"coderoom/internal/storage"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// roomCommand is one inbound frame from the room client.
type roomCommand struct {
	Type      string           `json:"type"`
	Direction models.Direction `json:"direction,omitempty"`
	Code      string           `json:"code,omitempty"`
	Message   string           `json:"message,omitempty"`
}

// chatFrame carries one teacher reply to an in-room chat message.
type chatFrame struct {
	Type    string             `json:"type"`
	Message models.ChatMessage `json:"message"`
}

// dialogueView is the open dialogue as the client sees it.
type dialogueView struct {
	CharacterID   string `json:"characterId"`
	CharacterName string `json:"characterName"`
	Sprite        string `json:"sprite"`
	Text          string `json:"text"`
	Speaker       string `json:"speaker,omitempty"`
	HasNext       bool   `json:"hasNext"`
}

// lessonView is the open interaction's lesson with its description already
// rendered to HTML.
type lessonView struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	DescriptionHTML string `json:"descriptionHtml"`
}

// stateFrame is the room state snapshot sent after every state-changing
// command and whenever an evaluator run finishes.
type stateFrame struct {
	Type      string                 `json:"type"`
	Player    models.Position        `json:"player"`
	Dialogue  *dialogueView          `json:"dialogue,omitempty"`
	Lesson    *lessonView            `json:"lesson,omitempty"`
	Example   *models.CodeExample    `json:"example,omitempty"`
	Exercise  *models.Exercise       `json:"exercise,omitempty"`
	Editor    models.CodeEditorState `json:"editor"`
	Completed []string               `json:"completed"`
}

// initFrame is sent once on connect so the client can draw the room.
type initFrame struct {
	Type   string             `json:"type"`
	Grid   gridView           `json:"grid"`
	Player models.Character   `json:"playerCharacter"`
	NPCs   []models.Character `json:"npcs"`
}

type gridView struct {
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	CellSize        float64 `json:"cellSize"`
	BackgroundColor string  `json:"backgroundColor"`
}

// roomConn serializes writes; the read loop and evaluator completions both
// send frames.
type roomConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *roomConn) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// RoomSocket is the realtime channel for one room session: movement, dialogue
// advancement, editor sync, and exercise runs all flow through here, each
// answered with a state snapshot.
func (a *App) RoomSocket(w http.ResponseWriter, r *http.Request) {
	sid := a.getSessionID(r)
	if sid == "" {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}
	c := &roomConn{conn: conn}
	defer conn.Close()

	session := a.sessionByID(sid)

	// Teardown: drop any in-flight run's effect and keep progress.
	defer func() {
		session.CloseDialogue()
		a.persistProgress(sid, session)
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	cat := a.Catalog()
	if err := c.send(initFrame{
		Type: "init",
		Grid: gridView{
			Width:           cat.Config.Grid.Width,
			Height:          cat.Config.Grid.Height,
			CellSize:        cat.Config.Grid.CellSize,
			BackgroundColor: cat.Config.Grid.BackgroundColor,
		},
		Player: cat.Player,
		NPCs:   cat.NPCs,
	}); err != nil {
		return
	}
	session.CheckInteractions()
	if err := c.send(a.snapshot(session)); err != nil {
		return
	}

	for {
		var cmd roomCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			break
		}
		session.Touch()

		switch cmd.Type {
		case "move":
			session.MovePlayer(cmd.Direction)
		case "advance":
			session.AdvanceDialogue()
		case "close":
			session.CloseDialogue()
		case "code":
			session.SetCode(cmd.Code)
			continue // editor sync needs no echo
		case "run":
			if cmd.Code != "" {
				session.SetCode(cmd.Code)
			}
			a.startRun(ctx, c, session)
		case "chat":
			a.startChat(ctx, c, session, cmd.Message)
			continue // the reply arrives as its own chat frame
		default:
			continue // unknown command types are ignored
		}

		if err := c.send(a.snapshot(session)); err != nil {
			break
		}
	}
}

// startRun claims the evaluator and applies the result asynchronously. A run
// finishing after the dialogue closed (or the exercise changed) presents a
// stale epoch and is dropped by CompleteRun.
func (a *App) startRun(ctx context.Context, c *roomConn, session *game.Session) {
	code, exercise, epoch, ok := session.BeginRun()
	if !ok {
		return // no exercise open, or a run is already in flight
	}
	go func() {
		result := a.Evaluator.Run(ctx, code, exercise)
		if session.CompleteRun(epoch, result.Output, result.Passed, exercise.ID) {
			if err := c.send(a.snapshot(session)); err != nil {
				slog.Debug("dropping run result, connection gone", "error", err)
			}
		}
	}()
}

// startChat forwards one in-room message to the open dialogue's teacher and
// pushes the reply back asynchronously. No dialogue open means nobody to talk
// to, so the message is dropped.
func (a *App) startChat(ctx context.Context, c *roomConn, session *game.Session, message string) {
	message = strings.TrimSpace(message)
	active := session.ActiveDialogue()
	if message == "" || active == nil {
		return
	}
	teacher := active.Character.Name
	topic, _ := storage.GetString(storage.KeyStudyTopic)
	go func() {
		reply, err := ai.TeacherReply(ctx, teacher, topic, message)
		if err != nil {
			slog.Error("room chat failed", "teacher", teacher, "error", err)
			reply = "I apologize, but I'm having trouble formulating a response."
		}
		frame := chatFrame{
			Type: "chat",
			Message: models.ChatMessage{
				ID:      uuid.New().String(),
				Role:    "assistant",
				Content: reply,
			},
		}
		if err := c.send(frame); err != nil {
			slog.Debug("dropping chat reply, connection gone", "error", err)
		}
	}()
}

func (a *App) snapshot(session *game.Session) stateFrame {
	frame := stateFrame{
		Type:      "state",
		Player:    session.PlayerPos(),
		Editor:    session.Editor(),
		Completed: session.CompletedLessons(),
	}
	if active := session.ActiveDialogue(); active != nil {
		speaker := active.Dialogue.Speaker
		frame.Dialogue = &dialogueView{
			CharacterID:   active.Character.ID,
			CharacterName: active.Character.Name,
			Sprite:        active.Character.Sprite,
			Text:          active.Dialogue.Text,
			Speaker:       speaker,
			HasNext:       active.Dialogue.Next != "",
		}
		if active.Lesson != nil {
			frame.Lesson = &lessonView{
				ID:              active.Lesson.ID,
				Title:           active.Lesson.Title,
				DescriptionHTML: string(a.markdown(active.Lesson.Description)),
			}
		}
		frame.Example = session.CurrentExample()
		frame.Exercise = session.CurrentExercise()
	}
	return frame
}
