// Package manifest turns rendered multi-document manifests into cluster objects.
//
// Each document is decoded with the client-go scheme and classified into a
// Kind. The Multiplexer dispatches on Kind to the matching typed client:
//
//	m := manifest.NewMultiplexer(clientset, "default")
//	created, err := m.Apply(ctx, rendered)
//
// Documents are created in the order they appear. A document of any other
// kind, such as ReplicaSet, fails the operation with a *KindError and
// nothing after it is processed. Nothing is rolled back.
package manifest
