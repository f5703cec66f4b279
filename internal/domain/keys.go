package domain

// KeyPrefix namespaces every key written to the cache store.
const KeyPrefix = "libsearch:"
