package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gbarzani/orgchart/modules/tree/domain/ports"
	"github.com/gbarzani/orgchart/modules/tree/domain/types"
	"github.com/gbarzani/orgchart/pkg/apierr"
	"github.com/gbarzani/orgchart/pkg/langs"
	"github.com/gbarzani/orgchart/pkg/nestedset"
)

var newRequestID = func() (string, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// NodeWriteService is the single write path: append a node as the last
// child of an existing parent.
type NodeWriteService interface {
	InsertLastChild(ctx context.Context, req InsertNodeRequest) (types.NodeView, error)
}

type InsertNodeRequest struct {
	ParentID int64
	// Names must supply a non-blank entry for every configured language;
	// entries beyond the configured set are stored as given.
	Names map[string]string
	// Language selects the name used in the returned view. Defaults to
	// the fallback language.
	Language string
	// RequestID correlates the insert journal entry. A v7 UUID is
	// generated when absent.
	RequestID string
}

type nodeWriteService struct {
	store    ports.TreeStore
	registry *langs.Registry
}

func NewNodeWriteService(store ports.TreeStore, registry *langs.Registry) NodeWriteService {
	return &nodeWriteService{store: store, registry: registry}
}

func (s *nodeWriteService) InsertLastChild(ctx context.Context, req InsertNodeRequest) (types.NodeView, error) {
	if req.ParentID <= 0 || len(req.Names) == 0 {
		return types.NodeView{}, apierr.NewMissingParameters(msgMissingParams)
	}

	names := make(map[string]string, len(req.Names))
	for language, name := range req.Names {
		names[s.registry.Canonical(language)] = langs.NormalizeName(name)
	}

	var missing []string
	for _, language := range s.registry.Supported() {
		if names[language] == "" {
			missing = append(missing, language)
		}
	}
	if len(missing) > 0 {
		return types.NodeView{}, apierr.NewMissingParameters(
			fmt.Sprintf("Names must be provided for all languages. Missing: %s", strings.Join(missing, ", ")))
	}

	requestID := strings.TrimSpace(req.RequestID)
	if requestID == "" {
		id, err := newRequestID()
		if err != nil {
			return types.NodeView{}, err
		}
		requestID = id
	}

	node, err := s.store.InsertLastChild(ctx, req.ParentID, names, requestID)
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrNodeNotFound):
			return types.NodeView{}, apierr.NewNotFound(msgNotFound)
		case errors.Is(err, nestedset.ErrBoundsExhausted):
			return types.NodeView{}, apierr.NewResourceExhausted("bound counter exhausted")
		default:
			return types.NodeView{}, err
		}
	}

	language := s.registry.Fallback()
	if strings.TrimSpace(req.Language) != "" {
		language = s.registry.Canonical(req.Language)
	}
	return types.NodeView{
		NodeID:        node.ID,
		Name:          node.NameIn(language, s.registry.Fallback()),
		ChildrenCount: node.ChildrenCount(),
	}, nil
}
