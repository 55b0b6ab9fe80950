package preview

// previewTemplate is the branded one-pager shown to prospects. The
// layout is fixed; only brand colors and business facts vary.
const previewTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta name="description" content="{{.BusinessName}} - {{.Industry}} in {{.City}}">
    <title>{{.BusinessName}} | {{.City}}</title>
    <style>
        * { box-sizing: border-box; margin: 0; padding: 0; }
        :root {
            --primary: {{.PrimaryColor}};
            --secondary: {{.SecondaryColor}};
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            color: #1f2937;
            line-height: 1.6;
        }
        .hero {
            background: linear-gradient(135deg, var(--primary) 0%, var(--secondary) 100%);
            color: white;
            padding: 6rem 2rem;
            text-align: center;
        }
        .hero h1 { font-size: 2.8rem; margin-bottom: 1rem; }
        .hero p { font-size: 1.3rem; opacity: 0.9; max-width: 640px; margin: 0 auto 2rem; }
        .cta {
            display: inline-block;
            background: white;
            color: var(--secondary);
            padding: 1rem 2.5rem;
            border-radius: 8px;
            font-weight: 600;
            text-decoration: none;
        }
        section { padding: 4rem 2rem; max-width: 960px; margin: 0 auto; }
        section h2 { color: var(--secondary); font-size: 2rem; margin-bottom: 1.5rem; }
        .cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(260px, 1fr)); gap: 1.5rem; }
        .card {
            border: 1px solid #e5e7eb;
            border-left: 4px solid var(--primary);
            border-radius: 8px;
            padding: 1.5rem;
        }
        .card h3 { color: var(--primary); margin-bottom: 0.5rem; }
        footer {
            background: var(--secondary);
            color: white;
            text-align: center;
            padding: 2rem;
        }
        footer a { color: var(--primary); }
    </style>
</head>
<body>
    <div class="hero">
        <h1>{{.BusinessName}}</h1>
        <p>Trusted {{.Industry}} serving {{.City}} and the surrounding area.</p>
        <a class="cta" href="mailto:{{.Email}}">Get a Free Quote</a>
    </div>

    <section>
        <h2>Why {{.City}} Chooses Us</h2>
        <div class="cards">
            <div class="card">
                <h3>Local Experts</h3>
                <p>Proudly based in {{.City}}, we know the needs of our neighbors.</p>
            </div>
            <div class="card">
                <h3>Fast Response</h3>
                <p>Same-day estimates and reliable scheduling for every job.</p>
            </div>
            <div class="card">
                <h3>Quality Guaranteed</h3>
                <p>Professional {{.Industry}} backed by our satisfaction guarantee.</p>
            </div>
        </div>
    </section>

    <section>
        <h2>Ready to Get Started?</h2>
        <p>Reach us any time at <a href="mailto:{{.Email}}">{{.Email}}</a> for a free, no-obligation consultation.</p>
    </section>

    <footer>
        <p>&copy; {{.BusinessName}} &middot; {{.City}}</p>
    </footer>
</body>
</html>
`
