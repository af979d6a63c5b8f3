package reporting

import (
	"context"

	"fitness-tracker/utils"
)

// Reporter is the fire-and-forget face of the tracker. Every failure is
// logged and counted, never returned, so a reporting outage cannot discard
// work the pipeline already did. A Reporter without a client does nothing.
type Reporter struct {
	project  *Project
	run      *Run
	failures int
}

// NewReporter wraps project; a nil project yields a disabled reporter.
func NewReporter(project *Project) *Reporter {
	return &Reporter{project: project}
}

// Disabled returns a reporter that drops everything.
func Disabled() *Reporter { return &Reporter{} }

// Enabled reports whether uploads go anywhere.
func (r *Reporter) Enabled() bool { return r.project != nil }

// Failures returns how many reporting calls failed so far.
func (r *Reporter) Failures() int { return r.failures }

// StartRun creates the run that later UploadRun calls target.
func (r *Reporter) StartRun(ctx context.Context, spec RunSpec) {
	if !r.Enabled() {
		return
	}
	run, err := r.project.CreateRun(ctx, spec)
	if err != nil {
		r.fail("create run", err)
		return
	}
	r.run = run
	utils.L().Info("tracking run %q started (id=%s)", spec.CustomRunID, run.ID)
}

// SetAttribute stores a project-level string attribute.
func (r *Reporter) SetAttribute(ctx context.Context, key, value string) {
	if !r.Enabled() {
		return
	}
	if err := r.project.SetAttribute(ctx, key, value); err != nil {
		r.fail("set "+key, err)
	}
}

// UploadProject stores png under key in the project.
func (r *Reporter) UploadProject(ctx context.Context, key string, png []byte) {
	if !r.Enabled() {
		return
	}
	if err := r.project.Upload(ctx, key, png); err != nil {
		r.fail("upload "+key, err)
	}
}

// UploadRun stores png under key in the current run, if one was started.
func (r *Reporter) UploadRun(ctx context.Context, key string, png []byte) {
	if r.run == nil {
		return
	}
	if err := r.run.Upload(ctx, key, png); err != nil {
		r.fail("upload "+key, err)
	}
}

// Stop finishes the current run, if any.
func (r *Reporter) Stop(ctx context.Context) {
	if r.run == nil {
		return
	}
	if err := r.run.Stop(ctx); err != nil {
		r.fail("stop run", err)
	}
	r.run = nil
}

func (r *Reporter) fail(op string, err error) {
	r.failures++
	utils.L().Warn("reporting: %s failed: %v", op, err)
}
