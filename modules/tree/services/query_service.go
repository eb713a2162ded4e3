package services

import (
	"context"
	"errors"
	"strings"

	"github.com/gbarzani/orgchart/modules/tree/domain/ports"
	"github.com/gbarzani/orgchart/modules/tree/domain/types"
	"github.com/gbarzani/orgchart/pkg/apierr"
	"github.com/gbarzani/orgchart/pkg/langs"
)

const (
	msgMissingParams     = "Missing mandatory params"
	msgNotFound          = "Not found"
	msgInvalidPageNumber = "Invalid page number requested"
	msgInvalidPageSize   = "Invalid page size requested"
)

// MaxPageSize caps page_size for all paginated reads. The bound is part of
// the external contract, not configuration.
const MaxPageSize = 1000

// NodeQueryService is the read side of the engine. All three operations
// are pure, validate their inputs before any store access, and return
// nodes in ascending left-bound order (stable pre-order).
type NodeQueryService interface {
	FetchAll(ctx context.Context, language string, pageNum, pageSize int) ([]types.NodeView, error)
	FetchByID(ctx context.Context, id int64, language string) (types.NodeView, error)
	SearchDescendants(ctx context.Context, parentID int64, language, term string, pageNum, pageSize int) ([]types.NodeView, error)
}

// QueryOptions tunes read behavior. Substring search is case-insensitive
// (Unicode fold) unless disabled.
type QueryOptions struct {
	CaseSensitiveSearch bool
}

type nodeQueryService struct {
	store    ports.TreeStore
	registry *langs.Registry
	opts     QueryOptions
}

func NewNodeQueryService(store ports.TreeStore, registry *langs.Registry, opts QueryOptions) NodeQueryService {
	return &nodeQueryService{store: store, registry: registry, opts: opts}
}

func validatePage(pageNum, pageSize int) error {
	if pageSize < 0 || pageSize > MaxPageSize {
		return apierr.NewInvalidPageSize(msgInvalidPageSize)
	}
	if pageNum < 0 {
		return apierr.NewInvalidPageNumber(msgInvalidPageNumber)
	}
	return nil
}

func (s *nodeQueryService) language(param string) (string, error) {
	if strings.TrimSpace(param) == "" {
		return "", apierr.NewMissingParameters(msgMissingParams)
	}
	return s.registry.Canonical(param), nil
}

func (s *nodeQueryService) view(n types.Node, language string) types.NodeView {
	return types.NodeView{
		NodeID:        n.ID,
		Name:          n.NameIn(language, s.registry.Fallback()),
		ChildrenCount: n.ChildrenCount(),
	}
}

func (s *nodeQueryService) FetchAll(ctx context.Context, language string, pageNum, pageSize int) ([]types.NodeView, error) {
	lang, err := s.language(language)
	if err != nil {
		return nil, err
	}
	if err := validatePage(pageNum, pageSize); err != nil {
		return nil, err
	}
	if pageSize == 0 {
		return []types.NodeView{}, nil
	}

	nodes, err := s.store.ListNodes(ctx, pageSize, pageNum*pageSize)
	if err != nil {
		return nil, err
	}

	views := make([]types.NodeView, 0, len(nodes))
	for _, n := range nodes {
		views = append(views, s.view(n, lang))
	}
	return views, nil
}

func (s *nodeQueryService) FetchByID(ctx context.Context, id int64, language string) (types.NodeView, error) {
	lang, err := s.language(language)
	if err != nil {
		return types.NodeView{}, err
	}
	if id <= 0 {
		return types.NodeView{}, apierr.NewMissingParameters(msgMissingParams)
	}

	n, err := s.store.GetNode(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNodeNotFound) {
			return types.NodeView{}, apierr.NewNotFound(msgNotFound)
		}
		return types.NodeView{}, err
	}
	return s.view(n, lang), nil
}

func (s *nodeQueryService) SearchDescendants(ctx context.Context, parentID int64, language, term string, pageNum, pageSize int) ([]types.NodeView, error) {
	lang, err := s.language(language)
	if err != nil {
		return nil, err
	}
	if parentID <= 0 || strings.TrimSpace(term) == "" {
		return nil, apierr.NewMissingParameters(msgMissingParams)
	}
	if err := validatePage(pageNum, pageSize); err != nil {
		return nil, err
	}

	parent, err := s.store.GetNode(ctx, parentID)
	if err != nil {
		if errors.Is(err, ports.ErrNodeNotFound) {
			return nil, apierr.NewNotFound(msgNotFound)
		}
		return nil, err
	}
	if pageSize == 0 {
		return []types.NodeView{}, nil
	}

	descendants, err := s.store.ListSubtree(ctx, parent.Left, parent.Right)
	if err != nil {
		return nil, err
	}

	// Filter on the name in the requested language; a node with no
	// translation for it is excluded.
	matched := descendants[:0:0]
	for _, n := range descendants {
		name, ok := n.Names[lang]
		if !ok {
			continue
		}
		if s.matches(name, term) {
			matched = append(matched, n)
		}
	}

	start := pageNum * pageSize
	if start >= len(matched) {
		return []types.NodeView{}, nil
	}
	end := min(start+pageSize, len(matched))

	views := make([]types.NodeView, 0, end-start)
	for _, n := range matched[start:end] {
		views = append(views, s.view(n, lang))
	}
	return views, nil
}

func (s *nodeQueryService) matches(name, term string) bool {
	if s.opts.CaseSensitiveSearch {
		return strings.Contains(name, term)
	}
	return langs.ContainsFold(name, term)
}
