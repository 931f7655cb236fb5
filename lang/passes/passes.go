// Package passes hosts the lowering passes that run over the resolved
// semantic tree before handoff to code generation. Each pass is a total
// rewrite of the document: it visits every component and rewrites
// elements or expressions in place. Passes run in a fixed order, and
// each is safe to run on a document containing none of its target
// constructs.
package passes

import (
	"fmt"

	"github.com/ardnew/weft/lang/diag"
	"github.com/ardnew/weft/lang/object"
)

// Pass is one lowering stage.
type Pass interface {
	// Name identifies the pass in logs and diagnostics.
	Name() string

	// Run rewrites doc in place, reporting problems to sink.
	Run(doc *object.Document, sink *diag.Sink)
}

// Default returns the lowering passes in their required order. The
// geometry pass runs first so the return elimination also normalizes
// any code blocks the geometry pass synthesizes.
func Default() []Pass {
	return []Pass{DefaultGeometry{}, RemoveReturn{}}
}

// Run executes the given passes over the document in order.
func Run(doc *object.Document, sink *diag.Sink, passes ...Pass) {
	for _, p := range passes {
		p.Run(doc, sink)
	}
}

// nameAllocator numbers the synthetic locals and properties a pass
// creates. Each pass invocation owns its own allocator, so names are
// unique within one compilation without any process wide state.
type nameAllocator struct {
	count int
}

func (n *nameAllocator) next(prefix string) string {
	name := fmt.Sprintf("%s%d", prefix, n.count)
	n.count++

	return name
}
