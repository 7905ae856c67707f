package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/gorilla/websocket"

	"github.com/goliatone/go-storefront/internal/commands"
	"github.com/goliatone/go-storefront/internal/compiler"
	"github.com/goliatone/go-storefront/internal/preview"
	"github.com/goliatone/go-storefront/internal/templates"
	"github.com/goliatone/go-storefront/pkg/interfaces"
	"github.com/goliatone/go-storefront/sections"
)

// Outbound frame kind for stylesheet pushes. Style regeneration is not part
// of the editor message taxonomy, so it travels as its own frame.
const frameStyleSheet = "STYLE_SHEET"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The editor frame is expected to be served from the admin origin;
	// cross-origin enforcement belongs to the host application.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (api *StorefrontAPI) registerPreviewRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "stores")
	mux.HandleFunc("GET "+root+"/{subdomain}/preview/{type}/ws", api.handlePreviewSocket)
}

// handlePreviewSocket upgrades the connection and runs one preview session:
// the channel announces its ready snapshot, then inbound frames are applied
// until the editor disconnects.
func (api *StorefrontAPI) handlePreviewSocket(w http.ResponseWriter, r *http.Request) {
	if api.stores == nil || api.compiler == nil || api.templates == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	store, err := api.stores.GetStoreBySubdomain(r.Context(), r.PathValue("subdomain"))
	if err != nil {
		writeError(w, err)
		return
	}

	templateType := r.PathValue("type")
	// The channel derives the global chrome from its live list, so the
	// seed must keep globals in rather than splitting them off.
	result, err := api.compiler.CompilePage(r.Context(), store, templateType, compiler.Options{
		IncludeDisabled: true,
		IncludeGlobals:  true,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	var tokenVars map[string]string
	if api.selector != nil {
		if vars, tokenErr := api.selector.TokenVariables(store.Theme, "", api.cssPrefix); tokenErr == nil {
			tokenVars = vars
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		api.logger.Warn("preview upgrade failed", "error", err)
		return
	}

	sink := &socketSink{conn: conn, logger: api.logger}
	channel := preview.NewChannel(preview.Config{
		Sections:          result.Sections,
		ThemeSettings:     result.ThemeSettings,
		CSSPrefix:         api.cssPrefix,
		TokenVariables:    tokenVars,
		ScrollDebounce:    api.preview.ScrollDebounce,
		HighlightDuration: api.preview.HighlightDuration,
	},
		preview.WithEmitter(sink),
		preview.WithStyleSink(sink),
		preview.WithBlockFetcher(sectionBlockFetcher{templates: api.templates, timeout: api.preview.BlockFetchTimeout}),
		preview.WithLogger(api.logger),
	)

	ctx := context.Background()
	if err := channel.Start(ctx); err != nil {
		api.logger.Error("preview start failed", "error", err)
		conn.Close()
		return
	}
	defer func() {
		channel.Close()
		conn.Close()
	}()

	apply := commands.NewHandler[command.Message](channel.Apply,
		commands.WithLogger[command.Message](api.logger),
		commands.WithOperation[command.Message]("preview.apply"),
	)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				api.logger.Warn("preview socket closed unexpectedly", "error", err)
			}
			return
		}

		msg, err := preview.DecodeMessage(data)
		if err != nil {
			if errors.Is(err, preview.ErrUnknownMessage) {
				api.logger.Debug("preview frame ignored", "error", err)
				continue
			}
			api.logger.Warn("preview message rejected", "error", err)
			continue
		}
		if err := apply.Execute(ctx, msg); err != nil {
			api.logger.Warn("preview message rejected", "error", err)
		}
	}
}

// socketSink serializes channel output onto the websocket. gorilla/websocket
// allows one concurrent writer, so every frame goes through the write lock.
type socketSink struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	logger interfaces.Logger
}

func (s *socketSink) send(frame map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteJSON(frame); err != nil {
		s.logger.Debug("preview frame write failed", "error", err)
	}
}

func (s *socketSink) PreviewReady(list []*sections.Section) {
	s.send(map[string]any{"type": preview.MessagePreviewReady, "sections": list})
}

func (s *socketSink) SectionSelected(sectionID, sectionType string) {
	s.send(map[string]any{"type": preview.MessageSectionSelected, "sectionId": sectionID, "sectionType": sectionType})
}

func (s *socketSink) BlockSelected(sectionID, blockID, blockType string) {
	s.send(map[string]any{
		"type":      preview.MessageBlockSelected,
		"sectionId": sectionID,
		"blockId":   blockID,
		"blockType": blockType,
	})
}

func (s *socketSink) ScrollPosition(scrollY float64) {
	s.send(map[string]any{"type": preview.MessageScrollPosition, "scrollY": scrollY})
}

func (s *socketSink) SectionBlocksLoaded(sectionID string, blocks []sections.Block) {
	s.send(map[string]any{"type": preview.MessageSectionBlocksLoaded, "sectionId": sectionID, "blocks": blocks})
}

func (s *socketSink) ApplyStyleSheet(css string) {
	s.send(map[string]any{"type": frameStyleSheet, "css": css})
}

// sectionBlockFetcher adapts the template service to the preview channel's
// lazy block loader.
type sectionBlockFetcher struct {
	templates templates.Service
	timeout   time.Duration
}

func (f sectionBlockFetcher) FetchBlocks(ctx context.Context, sectionID string) ([]sections.Block, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	return f.templates.SectionBlocks(ctx, sectionID)
}
