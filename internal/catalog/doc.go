// Package catalog maps human category names to Capital.com market
// navigation nodes.
//
// The provider's top-level taxonomy is small and stable, so the mapping is
// a static table rather than a discovered hierarchy. Per-category caps
// bound how many instruments a run fetches; shares alone list in the
// thousands.
package catalog
