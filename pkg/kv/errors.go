package kv

import "errors"

// ErrNotFound names the "key absent" condition. Client.Get and Batch.Get
// do not return it: they report a missing key as ok == false with a nil
// error, which callers tell apart from a transport failure (ErrTransport).
var ErrNotFound = errors.New("kv: key not found")

// ErrTransport wraps any error surfaced by the underlying KV client
// (connection failure, command failure). Per spec.md §7, a transport
// error aborts the entry before commit and is propagated to the driver
// for retry.
var ErrTransport = errors.New("kv: transport error")
