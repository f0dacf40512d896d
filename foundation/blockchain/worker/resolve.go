package worker

// resolveOperations handles consensus resolution. Block announcements
// from peers signal an immediate pass, and the ticker keeps nodes
// converging even when announcements are missed.
func (w *Worker) resolveOperations() {
	w.evHandler("worker: resolveOperations: G started")
	defer w.evHandler("worker: resolveOperations: G completed")

	for {
		select {
		case <-w.resolve:
			if !w.isShutdown() {
				w.runResolveOperation()
			}
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.runSyncOperation()
			}
		case <-w.shut:
			w.evHandler("worker: resolveOperations: received shut signal")
			return
		}
	}
}

// runResolveOperation performs a full longest-valid-chain pass over the
// known peers.
func (w *Worker) runResolveOperation() {
	w.evHandler("worker: runResolveOperation: started")
	defer w.evHandler("worker: runResolveOperation: completed")

	if replaced := w.state.Resolve(); replaced {
		w.evHandler("worker: runResolveOperation: local chain replaced")
	}
}

// runSyncOperation performs the periodic pull pass and additionally asks
// peers to push their chains back over the transport.
func (w *Worker) runSyncOperation() {
	w.evHandler("worker: runSyncOperation: started")
	defer w.evHandler("worker: runSyncOperation: completed")

	w.state.Resolve()

	if t := w.state.Transport; t != nil {
		t.RequestChains()
	}
}
