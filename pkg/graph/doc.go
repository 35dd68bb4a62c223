// Package graph defines the wire contract of the retrieval endpoint and a
// small HTTP client for it.
//
// The contract follows the Microsoft Graph retrieval API shapes: every
// response entity carries a required "@odata.type" discriminator, data source
// and resource type enums are closed except for the unknownFutureValue
// sentinel, and maximumNumberOfResults is bounded to the signed 32-bit range.
//
//	client := graph.NewClient("https://retrieval.example.com",
//	    graph.WithToken(token),
//	)
//	resp, err := client.Retrieve(ctx, &graph.RetrievalRequest{
//	    QueryString: "quarterly report",
//	    DataSource:  graph.DataSourceSharePoint,
//	})
package graph
