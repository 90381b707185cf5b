// Package manifest records which artifacts make up a published set of
// sound banks.
//
// # Atomic Protocol
//
// Save follows a two-phase commit:
//
//  1. Write the manifest to MANIFEST-NNNNNN.json (N is the version ID)
//  2. Update the CURRENT pointer blob to reference the new manifest
//
// On local file systems step 2 is an atomic rename. On S3 the pointer is a
// plain overwrite, or a DynamoDB conditional write with s3.DDBCommitStore.
//
// Load reads CURRENT to find the active manifest, then decodes it.
package manifest
