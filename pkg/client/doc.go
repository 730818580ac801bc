// Package client calls a running testbed server.
//
//	c, err := client.New("http://localhost:8000", client.WithAPIKey(key))
//	if err != nil {
//		return err
//	}
//	res, err := c.CreateDeployment(ctx, testbed.ApplicationRequest{Application: "jupyter"})
//
// Error replies are decoded into *errors.StructuredError carrying the
// server's code, so errors.CodeOf works across the wire.
package client
