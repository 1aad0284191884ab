package routes

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/mbolis/quick-contract/app"
	"github.com/mbolis/quick-contract/canvas"
	"github.com/mbolis/quick-contract/httpx"
	"github.com/mbolis/quick-contract/log"
	"github.com/mbolis/quick-contract/model"
	"github.com/mbolis/quick-contract/service"
)

type dragJSON struct {
	Dragging bool         `json:"dragging"`
	Index    *int         `json:"index,omitempty"`
	Offset   canvas.Point `json:"offset"`
}

type draftJSON struct {
	ID          string            `json:"id"`
	BlueprintID string            `json:"blueprintId,omitempty"`
	Canvas      canvas.Canvas     `json:"canvas"`
	Fields      []model.FormField `json:"fields"`
	Drag        dragJSON          `json:"drag"`
}

func draftView(d *service.Draft, b *service.Builder) draftJSON {
	view := draftJSON{
		ID:          d.ID,
		BlueprintID: d.BlueprintID,
		Canvas:      canvas.A4,
		Fields:      b.Fields(),
	}
	if i, ok := b.DragState().Dragging(); ok {
		view.Drag = dragJSON{Dragging: true, Index: &i, Offset: b.DragState().Offset()}
	}
	return view
}

// withDraft runs fn on the draft named in the URL and answers with the
// draft state, or with the error fn returned.
func withDraft(app app.App, code string, w http.ResponseWriter, r *http.Request, fn func(*service.Builder) error) {
	id := chi.URLParam(r, "id")
	d, err := app.Drafts.Get(id)
	if err != nil {
		httpx.LogNotFound(w, code, id)
		return
	}

	var view draftJSON
	err = d.Do(func(b *service.Builder) error {
		if err := fn(b); err != nil {
			return err
		}
		view = draftView(d, b)
		return nil
	})
	if err != nil {
		httpx.LogError(w, code, id, err)
		return
	}

	render.JSON(w, r, view)
}

// OpenDraft starts an authoring session, empty or editing the blueprint
// named by blueprintId.
func OpenDraft(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := struct {
			BlueprintID string `json:"blueprintId"`
		}{}
		if r.ContentLength != 0 {
			if err := render.DecodeJSON(r.Body, &body); err != nil {
				httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
				return
			}
		}

		var edit *model.Blueprint
		if body.BlueprintID != "" {
			bp, err := app.Store.GetBlueprint(r.Context(), body.BlueprintID)
			if err != nil {
				httpx.LogError(w, "store.get_blueprint", body.BlueprintID, err)
				return
			}
			edit = &bp
		}

		d := app.Drafts.Open(edit)
		var view draftJSON
		d.Do(func(b *service.Builder) error {
			view = draftView(d, b)
			return nil
		})

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, view)
	}
}

func GetDraft(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withDraft(app, "get_draft", w, r, func(*service.Builder) error { return nil })
	}
}

func AddDraftField(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := struct {
			Type  model.FieldType `json:"type"`
			Label string          `json:"label"`
		}{}
		if err := render.DecodeJSON(r.Body, &body); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		withDraft(app, "add_draft_field", w, r, func(b *service.Builder) error {
			_, err := b.AddField(body.Type, body.Label)
			return err
		})
	}
}

func RemoveDraftField(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.index")
			return
		}

		withDraft(app, "remove_draft_field", w, r, func(b *service.Builder) error {
			return b.RemoveField(index)
		})
	}
}

const (
	pointerDown  = "down"
	pointerMove  = "move"
	pointerUp    = "up"
	pointerLeave = "leave"
)

// DraftPointer feeds one pointer event to the drag engine of the draft.
// A down event without index picks the topmost field under the pointer.
func DraftPointer(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event := struct {
			Event string  `json:"event"`
			X     float64 `json:"x"`
			Y     float64 `json:"y"`
			Index *int    `json:"index"`
		}{}
		if err := render.DecodeJSON(r.Body, &event); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		p := canvas.Point{X: event.X, Y: event.Y}

		withDraft(app, "draft_pointer", w, r, func(b *service.Builder) error {
			switch event.Event {
			case pointerDown:
				if event.Index != nil {
					return b.PointerDown(p, *event.Index)
				}
				b.PointerDownAt(p)
			case pointerMove:
				b.PointerMove(p)
			case pointerUp:
				b.PointerUp()
			case pointerLeave:
				b.PointerLeave()
			default:
				return fmt.Errorf("%w: unknown pointer event %q", model.ErrInvalid, event.Event)
			}
			return nil
		})
	}
}

// SaveDraft stores the draft as a blueprint and closes it.
func SaveDraft(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		body := struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}{}
		if err := render.DecodeJSON(r.Body, &body); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		bp, err := app.Drafts.Save(r.Context(), app.Store, id, body.Name, body.Description)
		if err != nil {
			httpx.LogError(w, "save_draft", id, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, bp)
	}
}

func CloseDraft(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := app.Drafts.Close(id); err != nil {
			httpx.LogError(w, "close_draft", id, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
