/*
Package storage provides the persistence layer for Stride entities.

The Store interface abstracts storage operations; BoltStore is the embedded
BoltDB implementation used by the single-binary server. Each entity kind gets
its own bucket, values are JSON, and every key is prefixed with the owning
user's id:

	tasks/          <userID>/<taskID>        → Task JSON
	sections/       <userID>/<sectionID>     → Section JSON
	folders/        <userID>/<folderID>      → Folder JSON
	smart_folders/  <userID>/<smartFolderID> → SmartFolder JSON
	tags/           <userID>/<tagID>         → Tag JSON

User scoping through the key prefix doubles as the ownership check: a lookup
for another user's entity returns ErrNotFound, the same as a missing id.

Writes are upserts. Reorders run inside one bbolt Update transaction so a
batch of rank assignments is atomic: a concurrent reader sees either the old
ordering or the new one, never a mix, and an unknown id aborts the batch.
*/
package storage
