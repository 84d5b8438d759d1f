package lrcat

import "go.uber.org/zap"

// CollectionCompiler is the Generic Compiler bound to the collection
// main table. The reference tool defines no predefined query shapes for
// collections, so this is a direct instantiation with no hooks.
// Grounded on lrselectcollection.py: LRSelectCollection.
type CollectionCompiler struct {
	*Compiler
}

// NewCollectionCompiler builds a CollectionCompiler.
func NewCollectionCompiler(tc *TransformContext, logger *zap.SugaredLogger) *CollectionCompiler {
	return &CollectionCompiler{Compiler: NewCompiler(NewCollectionRegistry(), tc, logger)}
}
