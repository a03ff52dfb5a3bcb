// Package notification provides a Center that multicasts named notifications
// as stream publishers.
//
// Observers subscribe to a name and receive every notification posted under it
// afterwards; posting to a name nobody observes drops the notification:
//
//	center := notification.NewCenter[string]()
//	defer center.Close()
//
//	sub := stream.SinkValues(center.Publisher("day_changed"), func(n notification.Notification[string]) {
//	    fmt.Println(n.Name, n.Payload)
//	})
//	defer sub.Cancel()
//
//	center.Post("day_changed", "monday")
//
// Delivery is synchronous: Post returns after every observer has received the
// notification. Close finishes every stream; later posts fail with ErrCenterClosed.
package notification
