// Package vbo emulates legacy immediate-mode drawing on buffer objects.
//
// Vertices are issued between Begin and End the way glBegin/glVertex/glEnd
// did it. A Buffer collects them into parallel attribute arrays, derives
// bounding volumes, wireframe barycentrics and generated texture coordinates,
// and draws them through a Device either at every End (immediate buffers) or
// on demand (compiled buffers). A Context replaces the global GL state: five
// matrix stacks, fixed-function render toggles, the stock program bank, and
// the ray-cast and export hooks that piggyback on Render.
//
// Errors never panic except when the stock programs cannot be built. A failed
// call does nothing and leaves its error for Context.LastError.
package vbo
