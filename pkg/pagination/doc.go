// Package pagination loads the remote news list page by page.
//
// Controller is the interactive state machine used by list views: it keeps
// the page cursor, the merged item list and the loading/error flags, and
// publishes a consistent State snapshot after every mutation.
//
// Example usage:
//
//	ctrl, err := pagination.NewController(source, pagination.DefaultConfig(), logger)
//	if err != nil {
//		return err
//	}
//	updates, unsubscribe := ctrl.Subscribe()
//	defer unsubscribe()
//
//	_ = ctrl.LoadInitial(ctx)
//	for _, item := range ctrl.State().Items {
//		if ctrl.ShouldLoadMore(item) {
//			_ = ctrl.LoadMore(ctx)
//		}
//	}
//
// The controller:
//   - Fetches one page at a time (calls made while loading are ignored)
//   - Replaces the list on page 1, appends on later pages
//   - Advances the cursor only after a successful merge (failed pages are retried)
//   - Stops once the item count reaches the server's total count
//
// BatchFetcher is the non-interactive counterpart: it reads the first page to
// learn the total count and fetches the remaining pages with a worker pool.
package pagination
