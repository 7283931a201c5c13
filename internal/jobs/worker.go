package jobs

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"wellpull/internal/audit"
	"wellpull/internal/dataset"
	"wellpull/internal/notifications"
)

// Worker runs import jobs in the background with bounded concurrency.
// It replaces the external task queue of earlier deployments: job state
// lives in SQLite and processing happens in-process.
type Worker struct {
	store      *Store
	datasets   *dataset.Store
	audits     *audit.Store
	dispatcher *notifications.Dispatcher
	sheet      string

	sem    chan struct{}
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewWorker creates a Worker. Concurrency below 1 is clamped to 1.
func NewWorker(store *Store, datasets *dataset.Store, audits *audit.Store, dispatcher *notifications.Dispatcher, sheet string, concurrency int) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		store:      store,
		datasets:   datasets,
		audits:     audits,
		dispatcher: dispatcher,
		sheet:      sheet,
		sem:        make(chan struct{}, concurrency),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Enqueue records a pending job for the given workbook and starts
// processing it in the background.
func (w *Worker) Enqueue(ctx context.Context, sourceFile, originalName string) (*Job, error) {
	job, err := w.store.Create(ctx, sourceFile, originalName)
	if err != nil {
		return nil, err
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		select {
		case w.sem <- struct{}{}:
			defer func() { <-w.sem }()
		case <-w.ctx.Done():
			w.store.Fail(context.Background(), job.ID, "worker shutting down")
			return
		}

		w.run(job)
	}()

	return job, nil
}

// Close stops accepting work and waits for running jobs to finish.
func (w *Worker) Close() {
	w.cancel()
	w.wg.Wait()
}

func (w *Worker) run(job *Job) {
	// Jobs that already started are allowed to finish during shutdown, so
	// database writes do not use the worker's cancellable context.
	ctx := context.Background()

	if err := w.store.SetRunning(ctx, job.ID); err != nil {
		log.Printf("jobs: set running %s: %v", job.ID, err)
		return
	}

	result, err := dataset.ImportFile(job.SourceFile, w.sheet, func(processed, total int) {
		// Progress rows are advisory; a lost update is harmless.
		_ = w.store.UpdateProgress(ctx, job.ID, processed, total)
	})
	if err != nil {
		w.fail(job, err)
		return
	}

	name := strings.TrimSuffix(job.OriginalName, filepath.Ext(job.OriginalName))
	if name == "" {
		name = filepath.Base(job.SourceFile)
	}

	ds, err := w.datasets.Create(ctx, dataset.Dataset{
		Name:       name,
		SourceFile: job.OriginalName,
		Preview:    result.Preview,
	}, result.Wells)
	if err != nil {
		w.fail(job, err)
		return
	}

	message := fmt.Sprintf("Archivo procesado exitosamente: %d pozos importados, %d filas descartadas.",
		len(result.Wells), result.RowsDropped)
	if err := w.store.Complete(ctx, job.ID, ds.ID, message); err != nil {
		log.Printf("jobs: complete %s: %v", job.ID, err)
		return
	}

	if _, err := w.audits.Record(ctx, audit.Entry{
		ActorType: audit.ActorSystem,
		ActorID:   "worker",
		Action:    audit.ActionDatasetImported,
		Scope:     "dataset",
		ScopeID:   ds.ID,
		Summary:   message,
		Detail:    job.OriginalName,
	}); err != nil {
		log.Printf("jobs: audit %s: %v", job.ID, err)
	}

	if err := w.dispatcher.Dispatch(ctx, notifications.Notification{
		Type:    notifications.TypeImportCompleted,
		Title:   "Importación completada",
		Message: message,
		Payload: map[string]string{"job_id": job.ID, "dataset_id": ds.ID},
	}); err != nil {
		log.Printf("jobs: notify %s: %v", job.ID, err)
	}
}

func (w *Worker) fail(job *Job, cause error) {
	ctx := context.Background()
	log.Printf("jobs: import %s failed: %v", job.ID, cause)

	if err := w.store.Fail(ctx, job.ID, cause.Error()); err != nil {
		log.Printf("jobs: fail %s: %v", job.ID, err)
	}

	if err := w.dispatcher.Dispatch(ctx, notifications.Notification{
		Type:     notifications.TypeImportFailed,
		Severity: notifications.SeverityWarning,
		Title:    "Importación fallida",
		Message:  cause.Error(),
		Payload:  map[string]string{"job_id": job.ID},
	}); err != nil {
		log.Printf("jobs: notify %s: %v", job.ID, err)
	}
}
