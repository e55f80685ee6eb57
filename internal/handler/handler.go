// Package handler is the first layer after the router.
//
// It hosts functions in the two invocation styles supported by the
// platform:
//
//   - Callable: body {"data": ...}, result {"result": ...}, every failure
//     rendered as {"error": {...}} by the global error handler.
//   - OnRequest: the body is the payload itself, the result is written as is,
//     and validation failures are answered directly with a 400.
//
// Both styles run the same pipeline: optional auth check, request validation,
// the function body, response writing.
package handler
