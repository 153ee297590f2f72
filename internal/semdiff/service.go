// Package semdiff decides what changed between two versions of a file at
// declaration granularity and splits patches into small fragments.
package semdiff

import (
	"errors"

	"github.com/agusespa/semsplit/internal/metrics"
	"github.com/agusespa/semsplit/internal/parser"
	"github.com/agusespa/semsplit/internal/patch"
	"github.com/agusespa/semsplit/internal/types"
	"go.uber.org/zap"
)

// Service is the entry point for semantic diffs and patch splitting. It
// holds no per-call state and is safe for concurrent use.
type Service struct {
	registry *parser.ParserRegistry
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithRegistry(registry *parser.ParserRegistry) Option {
	return func(s *Service) {
		s.registry = registry
	}
}

func NewService(opts ...Option) *Service {
	s := &Service{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = parser.NewParserRegistry()
	}
	return s
}

// SemanticDiff reports symbol-level changes for languages with parser
// support and line-run changes for everything else. A source that fails to
// parse returns its *types.ParseError as is.
func (s *Service) SemanticDiff(req types.SemanticDiffRequest) (*types.SemanticDiffResponse, error) {
	p := s.registry.Lookup(req.Language)
	if p == nil {
		s.logger.Debug("no parser for language, using textual diff",
			zap.String("language", req.Language),
			zap.String("file", req.FilePath))
		s.metrics.ObserveSemanticDiff(string(types.ModeTextual))
		return &types.SemanticDiffResponse{
			Language: req.Language,
			Changes:  DiffLines(req.Before, req.After),
			Mode:     types.ModeTextual,
		}, nil
	}

	before, after, err := s.parsePair(p, req.FilePath, req.Before, req.After)
	if err != nil {
		return nil, err
	}

	changes := DiffSymbols(before, after)
	s.logger.Debug("computed symbol diff",
		zap.String("language", req.Language),
		zap.String("file", req.FilePath),
		zap.Int("before_symbols", before.Len()),
		zap.Int("after_symbols", after.Len()),
		zap.Int("changes", len(changes)))
	s.metrics.ObserveSemanticDiff(string(types.ModeSymbol))

	return &types.SemanticDiffResponse{
		Language: req.Language,
		Changes:  changes,
		Mode:     types.ModeSymbol,
	}, nil
}

// SplitPatch splits a patch into one fragment per hunk. The symbol strategy
// needs both source versions, which this request does not carry, so it is
// executed as hunk mode; use SplitPatchBySymbol for aligned fragments.
func (s *Service) SplitPatch(req types.SplitPatchRequest) types.SplitPatchResponse {
	if req.Strategy == types.StrategySymbol {
		s.logger.Debug("symbol strategy requested without sources, splitting by hunk",
			zap.String("language", req.Language))
	}
	return s.respond(types.StrategyHunk, patch.SplitByHunk(req.Patch))
}

// SplitPatchBySymbol merges hunks that fall inside the same declaration of
// the file at req.FilePath. Languages without a parser are split by hunk.
func (s *Service) SplitPatchBySymbol(req types.SymbolSplitRequest) (types.SplitPatchResponse, error) {
	p := s.registry.Lookup(req.Language)
	if p == nil {
		s.logger.Debug("no parser for language, splitting by hunk",
			zap.String("language", req.Language),
			zap.String("file", req.FilePath))
		return s.respond(types.StrategyHunk, patch.SplitByHunk(req.Patch)), nil
	}

	before, after, err := s.parsePair(p, req.FilePath, req.Before, req.After)
	if err != nil {
		return types.SplitPatchResponse{}, err
	}

	result := patch.SplitBySymbol(req.Patch, req.FilePath, spansOf(before), spansOf(after))
	return s.respond(types.StrategySymbol, result), nil
}

func (s *Service) parsePair(p parser.LanguageParser, filePath, before, after string) (*types.SymbolTable, *types.SymbolTable, error) {
	beforeTable, err := s.parse(p, filePath, before)
	if err != nil {
		return nil, nil, err
	}
	afterTable, err := s.parse(p, filePath, after)
	if err != nil {
		return nil, nil, err
	}
	return beforeTable, afterTable, nil
}

func (s *Service) parse(p parser.LanguageParser, filePath, content string) (*types.SymbolTable, error) {
	table, err := p.ParseSymbols(filePath, []byte(content))
	if err != nil {
		var perr *types.ParseError
		if errors.As(err, &perr) {
			s.metrics.ObserveParseError(perr.Language)
			s.logger.Debug("source failed to parse",
				zap.String("language", perr.Language),
				zap.String("file", perr.FilePath),
				zap.Int("line", perr.Line),
				zap.Int("column", perr.Column))
		}
		return nil, err
	}
	return table, nil
}

func (s *Service) respond(strategy types.Strategy, result patch.Result) types.SplitPatchResponse {
	if result.Degraded {
		s.logger.Debug("patch yielded no hunks, returning it whole",
			zap.String("strategy", string(strategy)),
			zap.Error(result.Cause))
	}
	s.metrics.ObserveSplit(string(strategy), result.Degraded, len(result.Fragments))
	return types.SplitPatchResponse{
		Chunks:   result.Fragments,
		Degraded: result.Degraded,
	}
}

func spansOf(table *types.SymbolTable) []patch.Span {
	symbols := table.Symbols()
	spans := make([]patch.Span, 0, len(symbols))
	for _, sym := range symbols {
		spans = append(spans, patch.Span{Key: sym.Key, Start: sym.Line, End: sym.EndLine})
	}
	return spans
}
