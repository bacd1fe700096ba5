/*
Persist saves values to, and loads them from, leaf files named by a sequence of path segments.

Every Save and Load first makes sure the path exists (see segpath.Resolver.EnsurePathExists),
so a leaf file goes through three states: absent, created empty, and populated.
Load reports the first two as a NoData record rather than an error;
there is no way back to absent.

The bytes in a leaf file are whatever the Store's serial.Codec produces.
There is no header and no version tag.
*/
package persist
