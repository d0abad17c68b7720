/*
Package config loads the defaults for rewrite-history from a YAML, HCL or
JSON file.

	            +-------------+
	            |   Config    |
	            | (defaults)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   HCL    | |   JSON   |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Provides the request defaults the host UI used to offer (png -> jpg,
  concurrency 4, recursive, delete and force on)
- Carries codec settings: JPEG/WebP quality, lossless WebP, pixel limit
- Validates extensions and ranges before anything touches the disk

🔄 Flow:
1. Start from DefaultConfig
2. Decode the file on top of it, so absent keys keep their default
3. Validate (extensions, quality ranges, concurrency clamped to 1)

🧮 HCL extras:
HCL files may use the cpu_count variable and the floor, min and max
functions:

	concurrency = max(1, floor(cpu_count / 2))
	to          = "webp"

🔍 Example:

	cfg, err := config.LoadOrDefault(ctx, ".rewrite-history.yaml")
	if err != nil {
		return err
	}
	req := cfg.Request("outputs")
*/
package config
