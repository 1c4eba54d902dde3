// Package spool принимает мутации от других локальных процессов через каталог.
//
// Писатель кладет файл с мутацией под временным именем и переименовывает
// его в *.json: rename атомарен, и watcher не увидит частично записанный файл.
package spool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	httpClient "github.com/iudanet/sgisync/internal/client/api"
	"github.com/iudanet/sgisync/internal/client/queue"
	clientsync "github.com/iudanet/sgisync/internal/client/sync"
	"github.com/iudanet/sgisync/internal/models"
	"github.com/iudanet/sgisync/pkg/api"
)

const (
	fileExt     = ".json"
	rejectedExt = ".rejected"
)

//go:generate moq -out mutator_mock.go . Mutator

// Mutator применяет мутацию (sync.Service)
type Mutator interface {
	Mutate(
		ctx context.Context,
		kind, action string,
		payload json.RawMessage,
		targetID string,
		opts ...queue.EnqueueOption,
	) (*clientsync.MutateResult, error)
}

// Watcher следит за каталогом и передает каждый *.json файл в Mutator
type Watcher struct {
	logger  *slog.Logger
	mutator Mutator
	dir     string
}

// NewWatcher создает watcher каталога dir
func NewWatcher(logger *slog.Logger, dir string, mutator Mutator) *Watcher {
	return &Watcher{
		logger:  logger,
		mutator: mutator,
		dir:     dir,
	}
}

// Run обрабатывает уже лежащие файлы, затем новые, до отмены ctx
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create spool directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer func() {
		_ = fsw.Close()
	}()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch spool directory %s: %w", w.dir, err)
	}
	w.logger.InfoContext(ctx, "Watching spool directory", "dir", w.dir)

	// Файлы, появившиеся до старта watcher
	if err := w.Scan(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if isSpoolFile(event.Name) {
				w.ProcessFile(ctx, event.Name)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.ErrorContext(ctx, "Spool watcher error", "error", err)
		}
	}
}

// Scan обрабатывает все *.json файлы каталога
func (w *Watcher) Scan(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("failed to read spool directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !isSpoolFile(e.Name()) {
			continue
		}
		w.ProcessFile(ctx, filepath.Join(w.dir, e.Name()))
	}
	return nil
}

// ProcessFile применяет мутацию из файла. Успешно принятый файл удаляется,
// отвергнутый переименовывается в *.rejected. Файл остается на месте,
// если мутацию не удалось сохранить локально.
func (w *Watcher) ProcessFile(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.logger.ErrorContext(ctx, "Failed to read spool file", "path", path, "error", err)
		}
		return
	}
	// Create без содержимого: данные придут следующим Write
	if len(data) == 0 {
		return
	}

	var record models.MutationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		w.reject(ctx, path, fmt.Errorf("invalid mutation file: %w", err))
		return
	}

	var opts []queue.EnqueueOption
	if record.BaseVersion != nil {
		opts = append(opts, queue.WithBaseVersion(*record.BaseVersion))
	}

	res, err := w.mutator.Mutate(ctx, record.EntityKind, record.Action, record.Payload, record.TargetID, opts...)
	if err != nil {
		var statusErr *httpClient.StatusError
		if errors.Is(err, api.ErrValidation) || errors.As(err, &statusErr) {
			w.reject(ctx, path, err)
			return
		}
		w.logger.ErrorContext(ctx, "Failed to apply spool mutation, will retry on restart",
			"path", path,
			"error", err,
		)
		return
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		w.logger.ErrorContext(ctx, "Failed to remove spool file", "path", path, "error", err)
	}
	w.logger.InfoContext(ctx, "Spool mutation accepted",
		"path", path,
		"temp_id", res.TempID,
		"queued", res.Queued,
	)
}

func (w *Watcher) reject(ctx context.Context, path string, cause error) {
	target := strings.TrimSuffix(path, fileExt) + rejectedExt
	if err := os.Rename(path, target); err != nil {
		w.logger.ErrorContext(ctx, "Failed to reject spool file", "path", path, "error", err)
		return
	}
	w.logger.WarnContext(ctx, "Spool mutation rejected",
		"path", target,
		"error", cause,
	)
}

func isSpoolFile(name string) bool {
	return strings.HasSuffix(name, fileExt) && !strings.HasPrefix(filepath.Base(name), ".")
}
