// Package cmsconsole is a Go client for managing headless CMS content the
// way the console does: edit collection schemas as a diff against what the
// backend holds, and write entries with relationships resolved and files
// uploaded first.
//
// # Schemas
//
//	client, _ := cmsconsole.New(
//	    cmsconsole.WithBackend("https://cms.example.com/api"),
//	    cmsconsole.WithToken(os.Getenv("CMS_TOKEN")),
//	)
//	fields, _ := client.Schema("blog", "posts").Pull(ctx)
//	fields = append(fields, cmsconsole.Field{Label: "Subtitle", Key: "subtitle", Type: cmsconsole.FieldString})
//	cs, _ := client.Schema("blog", "posts").Apply(ctx, fields)
//
// # Entries
//
//	posts := client.Entries("blog", "posts")
//	entry, _ := posts.Create(ctx, map[string]any{
//	    "title": "Hello",
//	    "cover": cmsconsole.NewFile("cover.jpg", "image/jpeg", data),
//	}, false)
//	_, _ = posts.Publish(ctx, entry.ID, nil)
package cmsconsole
