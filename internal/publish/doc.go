// Package publish uploads rendered pages to object storage.
//
//	target, err := publish.ParseTarget("s3://my-bucket/previews/index.html")
//	client := publish.NewS3Client(publish.S3Config{Region: "us-east-1"})
//	p := publish.NewS3Publisher(client, target.Bucket)
//	err = p.Publish(ctx, target.Key, html)
//
// Credentials come from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and the
// optional AWS_SESSION_TOKEN. S3Config.Endpoint targets S3-compatible
// stores with path-style addressing.
package publish
