// Package resolve locates a project's compiled binary through a tiered
// pipeline: ask the build tool, compute from its output conventions, search
// the filesystem, and finally guess the conventional location.
package resolve

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dotlaunch/internal/msbuild"
	"dotlaunch/internal/project"
)

// Provenance labels the tier that produced a resolved path.
type Provenance string

const (
	// ProvenanceToolReported means the tool returned the target path itself.
	ProvenanceToolReported Provenance = "tool-reported"
	// ProvenanceToolComputed means the path was computed from reported
	// properties using the tool's layout convention.
	ProvenanceToolComputed Provenance = "tool-computed"
	// ProvenanceSearch means a filesystem search, or the conventional guess
	// when even that found nothing.
	ProvenanceSearch Provenance = "fallback-search"
)

// Resolution is a best-effort binary location. Path is absolute and may not
// exist; callers decide whether to build.
type Resolution struct {
	Path       string
	Provenance Provenance
}

// PropertyQuerier is the slice of the build-tool client the resolver uses.
type PropertyQuerier interface {
	QueryProperties(ctx context.Context, projectFile, configuration string, names []string) (msbuild.PropertySet, error)
	QueryPropertiesViaTargets(ctx context.Context, projectFile, configuration string, names []string) (msbuild.PropertySet, error)
}

// Resolver runs the resolution pipeline. Construct with NewResolver.
type Resolver struct {
	querier PropertyQuerier
	log     *zap.Logger
}

// NewResolver builds a resolver. A nil logger disables logging.
func NewResolver(querier PropertyQuerier, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{querier: querier, log: log}
}

// Resolve never fails. Each tier's failure falls through to the next, and
// the last tier is a conventional guess, so the caller always gets a
// deterministic location to check or report against.
func (r *Resolver) Resolve(ctx context.Context, proj project.Project, configuration string) Resolution {
	log := r.log.With(
		zap.String("resolution", uuid.NewString()),
		zap.String("project", proj.Name),
		zap.String("configuration", configuration),
	)

	names := msbuild.ResolutionProperties()

	props, err := r.querier.QueryProperties(ctx, proj.File, configuration, names)
	if err != nil {
		log.Warn("property query failed", zap.Error(err))
		props = nil
	}
	if res, ok := r.fromProperties(log, proj, configuration, props); ok {
		return res
	}

	// Nothing usable from the direct query: retry once through a temporary
	// targets file, unless the caller is already gone.
	if ctx.Err() == nil {
		props, err = r.querier.QueryPropertiesViaTargets(ctx, proj.File, configuration, names)
		if err != nil {
			log.Warn("targets-file query failed", zap.Error(err))
			props = nil
		}
		if res, ok := r.fromProperties(log, proj, configuration, props); ok {
			return res
		}
	}

	if found, ok := searchBinary(proj, configuration); ok {
		log.Info("binary resolved",
			zap.String("path", found),
			zap.String("provenance", string(ProvenanceSearch)))
		return Resolution{Path: found, Provenance: ProvenanceSearch}
	}

	guess := filepath.Join(proj.Dir, "bin", configuration, proj.Name+".dll")
	log.Warn("binary not found anywhere, reporting conventional path",
		zap.String("path", guess))
	return Resolution{Path: guess, Provenance: ProvenanceSearch}
}

// fromProperties applies the two property-backed tiers: a directly reported
// target path wins, then the computed expectation.
func (r *Resolver) fromProperties(log *zap.Logger, proj project.Project, configuration string, props msbuild.PropertySet) (Resolution, bool) {
	if len(props) == 0 {
		return Resolution{}, false
	}

	if target, ok := props.Get(msbuild.PropTargetPath); ok {
		if !filepath.IsAbs(target) {
			target = filepath.Join(proj.Dir, target)
		}
		log.Info("binary resolved",
			zap.String("path", target),
			zap.String("provenance", string(ProvenanceToolReported)))
		return Resolution{Path: target, Provenance: ProvenanceToolReported}, true
	}

	if expected, ok := ExpectedTargetPath(proj, configuration, props); ok {
		log.Info("binary resolved",
			zap.String("path", expected),
			zap.String("provenance", string(ProvenanceToolComputed)))
		return Resolution{Path: expected, Provenance: ProvenanceToolComputed}, true
	}
	return Resolution{}, false
}
