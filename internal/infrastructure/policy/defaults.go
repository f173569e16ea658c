package policy

import "github.com/codriver-ai/codriver/internal/domain"

// DefaultMaxAutoExecutions caps auto-approved commands per session.
const DefaultMaxAutoExecutions = 50

// defaultTrustedPatterns are command prefixes that run without confirmation.
// Read-only queries, standard build/test/run invocations, and linters.
var defaultTrustedPatterns = []string{
	// package manager queries
	"npm list", "npm view", "npm search", "npm outdated",
	"pip list", "pip show", "pip freeze",
	"go list", "cargo tree", "gem list", "brew list",
	// build / test / run
	"npm run", "npm test", "npm start", "npm run build", "npm run test",
	"yarn run", "yarn test", "yarn build", "pnpm run", "pnpm test",
	"go build", "go run", "go test", "go vet", "go fmt", "gofmt",
	"cargo build", "cargo run", "cargo test", "cargo check", "cargo fmt",
	"python -m pytest", "python3 -m pytest", "pytest", "tox",
	"mvn compile", "mvn test", "mvn package", "gradle build", "gradle test",
	"dotnet build", "dotnet test", "dotnet run",
	"make", "cmake --build",
	"node ", "python ", "python3 ", "ruby ", "deno run",
	"tsc", "npx tsc",
	// read-only VCS
	"git status", "git log", "git diff", "git branch", "git show",
	"git remote", "git stash list", "git blame",
	// read-only filesystem inspection
	"ls", "dir", "pwd", "cat ", "head ", "tail ", "wc ", "stat ",
	"file ", "du ", "df ", "tree", "find ", "grep ", "rg ", "which ",
	"whereis ", "echo ",
	// version queries
	"node --version", "node -v", "npm --version", "python --version",
	"python3 --version", "go version", "cargo --version", "rustc --version",
	"java -version", "ruby --version", "git --version", "docker --version",
	"kubectl version",
	// linters and formatters
	"eslint", "npx eslint", "prettier --check", "npx prettier --check",
	"golangci-lint run", "staticcheck", "flake8", "pylint", "black --check",
	"ruff check", "clippy", "cargo clippy", "shellcheck",
}

// defaultConfirmPatterns are command prefixes that are reasonable to run but
// always routed through human confirmation: dependency installs, VCS writes,
// and file move/copy/delete commands.
var defaultConfirmPatterns = []string{
	// dependency install / update
	"npm install", "npm i ", "npm ci", "npm uninstall", "npm update",
	"yarn add", "yarn install", "yarn remove", "yarn upgrade",
	"pnpm add", "pnpm install", "pnpm remove",
	"pip install", "pip uninstall", "pip3 install",
	"go get", "go mod tidy", "go install",
	"cargo add", "cargo install", "cargo update",
	"gem install", "bundle install", "brew install",
	"apt install", "apt-get install", "yum install", "dnf install",
	// VCS writes
	"git add", "git commit", "git push", "git pull", "git merge",
	"git rebase", "git checkout", "git switch", "git clone", "git fetch",
	"git stash", "git tag", "git cherry-pick",
	// file mutation
	"mv ", "cp ", "rm ", "rmdir", "mkdir", "touch ", "ln ",
	"chmod ", "chown ",
	// container / cloud
	"docker run", "docker build", "docker compose", "docker-compose",
	"kubectl apply", "kubectl delete", "terraform apply",
	"aws ", "gcloud ", "az ",
}

// defaultForbiddenPatterns are substrings that mark a command critical:
// destructive filesystem operations, privilege escalation, pipe-to-shell
// installs, destructive VCS operations, package publishing, and shell
// profile mutation.
var defaultForbiddenPatterns = []string{
	// destructive filesystem
	"rm -rf /", "rm -rf ~", "rm -rf *", "rm -rf .",
	"rm -fr /", "del /f", "del /s", "rmdir /s", "format c:",
	"dd if=", "mkfs", "> /dev/sd", "shred ",
	":(){", // fork bomb
	// privilege escalation
	"sudo rm", "sudo dd", "sudo chmod", "sudo chown", "sudo mv",
	"chmod -r 777", "chmod 777 /",
	// network to shell
	"curl | sh", "curl | bash", "wget | sh", "wget | bash",
	"| sudo sh", "| sudo bash",
	// destructive VCS
	"git push --force", "git push -f", "git reset --hard",
	"git clean -fd", "git branch -d", "git branch -D",
	// package publishing
	"npm publish", "cargo publish", "gem push", "twine upload",
	"goreleaser release",
	// shell profile mutation
	">> ~/.bashrc", ">> ~/.zshrc", ">> ~/.profile", ">> ~/.bash_profile",
	"> ~/.bashrc", "> ~/.zshrc",
	// system control
	"shutdown", "reboot", "halt", "poweroff", "killall", "kill -9 1",
}

// defaultSensitiveMarkers flag file paths the policy refuses to touch
// regardless of mode: credentials, keys, and cloud secrets.
var defaultSensitiveMarkers = []string{
	".env", "id_rsa", "id_dsa", "id_ecdsa", "id_ed25519",
	".ssh/", ".gnupg/", ".aws/", ".kube/config",
	"credentials", "secret", "private_key", "token",
	".netrc", ".pgpass", ".npmrc", ".pypirc",
	"keychain", "wallet.dat", "shadow", "passwd",
}

// DefaultConfig returns the built-in policy configuration.
func DefaultConfig() domain.PolicyConfig {
	return domain.PolicyConfig{
		Enabled:           true,
		Mode:              domain.ModeBalanced,
		TrustedPatterns:   append([]string(nil), defaultTrustedPatterns...),
		ForbiddenPatterns: append([]string(nil), defaultForbiddenPatterns...),
		ConfirmPatterns:   append([]string(nil), defaultConfirmPatterns...),
		MaxAutoExecutions: DefaultMaxAutoExecutions,
	}
}
