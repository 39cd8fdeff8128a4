package api

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"unify-api/domain"
)

var (
	historyOnce    sync.Once
	historyJobs    chan domain.StatusHistoryEntry
	historyWorkers int
	historyBuf     int
	appendTimeout  time.Duration
	handoffTimeout time.Duration
	retryAttempts  int
	retryInitial   time.Duration
	retryMax       time.Duration
	bg             = context.Background()
	globalHistory  domain.HistoryStore
	globalLog      *log.Logger
	historyWG      sync.WaitGroup
)

// shutdownHistorySink stops worker goroutines and clears shared state. It is
// intended for tests.
func shutdownHistorySink() {
	if historyJobs != nil {
		close(historyJobs)
		historyJobs = nil
	}

	historyWG.Wait()

	globalHistory = nil
	globalLog = nil
	historyWorkers = 0
	historyBuf = 0
	appendTimeout = 0
	handoffTimeout = 0
	retryAttempts = 0
	retryInitial = 0
	retryMax = 0
	historyOnce = sync.Once{}
	historyWG = sync.WaitGroup{}
}

func initHistorySink(store domain.HistoryStore, logger *log.Logger) {
	historyOnce.Do(func() {
		if store == nil {
			panic("history store is required")
		}
		if logger == nil {
			panic("Logger is not initialized")
		}
		globalHistory = store
		globalLog = logger

		historyWorkers = envInt("HISTORY_WORKERS", 4)
		historyBuf = envInt("HISTORY_BUFFER", 1024)
		appendTimeout = envDur("HISTORY_APPEND_TIMEOUT", 30*time.Second)
		handoffTimeout = envDur("HISTORY_HANDOFF_TIMEOUT", 15*time.Millisecond)
		retryAttempts = envInt("HISTORY_RETRY_ATTEMPTS", 3)
		retryInitial = envDur("HISTORY_RETRY_INITIAL", 250*time.Millisecond)
		retryMax = envDur("HISTORY_RETRY_MAX", 5*time.Second)
		if historyWorkers <= 0 {
			historyWorkers = 1
		}
		if retryAttempts <= 0 {
			retryAttempts = 1
		}

		historyJobs = make(chan domain.StatusHistoryEntry, historyBuf)
		for i := 0; i < historyWorkers; i++ {
			historyWG.Add(1)
			go historyWorker(i, historyJobs)
		}
		globalLog.Infof("history sink started, workers: %d, buffer: %d, attempts: %d", historyWorkers, historyBuf, retryAttempts)
	})
}

func historyWorker(id int, jobCh <-chan domain.StatusHistoryEntry) {
	defer historyWG.Done()
	for e := range jobCh {
		attemptHistoryAppend(id, e)
	}
}

// attemptHistoryAppend writes one audit row, retrying transient failures with
// capped exponential backoff. History is best-effort: the final failure is
// logged and the entry dropped, never surfaced to the move that produced it.
func attemptHistoryAppend(worker int, e domain.StatusHistoryEntry) {
	delay := retryInitial
	var lastErr error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
			delay *= 2
			if delay > retryMax {
				delay = retryMax
			}
		}
		ctx, cancel := context.WithTimeout(bg, appendTimeout)
		lastErr = globalHistory.InsertStatusHistory(ctx, e)
		cancel()
		if lastErr == nil {
			return
		}
	}
	globalLog.Errorf("history append failed, err: %v, task: %s, transition: %s->%s, worker: %d",
		lastErr, e.TaskID, e.PreviousStatus, e.NewStatus, worker)
}

// appendHistory hands the entry to the worker pool, falling back to an inline
// append when the buffer is saturated so the row is not lost.
func appendHistory(e domain.StatusHistoryEntry) {
	if tryEnqueueHistory(e) {
		return
	}
	if globalLog != nil {
		globalLog.Warn("history buffer saturated; appending inline")
	}
	attemptHistoryAppend(-1, e)
}

func tryEnqueueHistory(e domain.StatusHistoryEntry) bool {
	if historyJobs == nil {
		return false
	}

	if ok, closed := trySendNonBlocking(historyJobs, e); closed {
		return false
	} else if ok {
		return true
	}

	if handoffTimeout <= 0 {
		return false
	}

	timer := time.NewTimer(handoffTimeout)
	defer timer.Stop()

	ok, closed := sendWithTimer(historyJobs, e, timer.C)
	if closed {
		return false
	}
	return ok
}

func trySendNonBlocking(ch chan domain.StatusHistoryEntry, e domain.StatusHistoryEntry) (ok bool, closed bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			closed = true
		}
	}()

	select {
	case ch <- e:
		return true, false
	default:
		return false, false
	}
}

func sendWithTimer(ch chan domain.StatusHistoryEntry, e domain.StatusHistoryEntry, timer <-chan time.Time) (ok bool, closed bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			closed = true
		}
	}()

	select {
	case ch <- e:
		return true, false
	case <-timer:
		return false, false
	}
}

// queuedHistory adapts the package-level sink to domain.HistoryAppender.
type queuedHistory struct{}

func (queuedHistory) Append(e domain.StatusHistoryEntry) { appendHistory(e) }
