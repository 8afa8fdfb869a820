// Package feed ties a list source to a paginator and a session-scoped view
// history.
//
// A Session holds the browsing state of one signed-in user: the current
// filter (all reviews, or one owner's), the paginated list for that filter,
// and a history.Cache per filter recording visited pages and their last
// rendered contents. Fetches are split into BeginFetch, Fetch and ApplyFetch
// so a UI can run the network call off its event loop and still discard
// results that arrive after the filter changed or a newer fetch landed.
//
// Mutations (create, edit, delete, like, comment) never patch the local list.
// They call the Mutator, invalidate any source-side cache, and refetch.
package feed
