// Package intelligence routes prompt invocations to external text-generation
// engines. A Gateway holds a strategy table from engine name to Provider and
// validates the invocation config (engine present, engine recognized,
// credentials supplied) before any network call, so misconfiguration fails
// fast rather than at the provider.
//
// Built-in providers live in the openai, anthropic and local subpackages; the
// root façade registers all of them by default.
package intelligence
